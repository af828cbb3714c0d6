// Package mail sends transactional mail: the email-verification and
// password-reset messages that carry action-token links. The service only
// composes the token and link; delivery goes through a Sender.
package mail

import (
	"context"
	"fmt"
)

// Message is one outbound transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// VerificationMessage composes the email-verification mail for a signup.
// domain is the public host; token is an action token minted for the
// "email-verification" purpose.
func VerificationMessage(to, domain, token string) Message {
	link := fmt.Sprintf("https://%s/api/v1/auth/verify/%s", domain, token)
	return Message{
		To:      to,
		Subject: "Verify Your Email - Bookly",
		HTML: fmt.Sprintf(`<h1>Verify your email</h1>
<p>Please click the link below to verify your email address:</p>
<a href="%s">Verify Email</a>`, link),
	}
}

// PasswordResetMessage composes the password-reset mail. token is an action
// token minted for the "password-reset" purpose.
func PasswordResetMessage(to, domain, token string) Message {
	link := fmt.Sprintf("https://%s/api/v1/auth/reset_password/%s", domain, token)
	return Message{
		To:      to,
		Subject: "Reset Your Password - Bookly",
		HTML: fmt.Sprintf(`<h1>Reset Your Password</h1>
<p>Please click the link below to reset your password:</p>
<a href="%s">Reset Password</a>`, link),
	}
}
