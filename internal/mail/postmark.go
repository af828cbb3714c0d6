package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkSender delivers mail through the Postmark transactional API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkSender returns a Sender backed by Postmark. Both tokens and the
// sender address are required; failing fast here beats silent delivery
// failures later.
func NewPostmarkSender(serverToken, accountToken, from string) (*PostmarkSender, error) {
	if serverToken == "" || accountToken == "" {
		return nil, errors.New("mail: postmark tokens are required")
	}
	if from == "" {
		return nil, errors.New("mail: sender address is required")
	}
	return &PostmarkSender{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
	}, nil
}

// Send delivers msg via Postmark.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("mail: postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
