// seed inserts development sample data for local testing. Run via go run ./cmd/seed.
// Idempotent: skips inserts if the dev admin (admin@bookly.local) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	bookdomain "bookly/internal/book/domain"
	bookrepo "bookly/internal/book/repository"
	"bookly/internal/config"
	"bookly/internal/db"
	reviewdomain "bookly/internal/review/domain"
	reviewrepo "bookly/internal/review/repository"
	"bookly/internal/security"
	userdomain "bookly/internal/user/domain"
	userrepo "bookly/internal/user/repository"
)

const (
	adminEmail  = "admin@bookly.local"
	readerEmail = "reader@bookly.local"
	devPassword = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	books := bookrepo.NewPostgresRepository(conn)
	reviews := reviewrepo.NewPostgresRepository(conn)

	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@bookly.local exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	admin := &userdomain.User{
		UID:          uuid.NewString(),
		Username:     "admin",
		Email:        adminEmail,
		PasswordHash: passwordHash,
		FirstName:    "Bookly",
		LastName:     "Admin",
		Role:         userdomain.RoleAdmin,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}

	reader := &userdomain.User{
		UID:          uuid.NewString(),
		Username:     "reader",
		Email:        readerEmail,
		PasswordHash: passwordHash,
		FirstName:    "Dev",
		LastName:     "Reader",
		Role:         userdomain.RoleUser,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, reader); err != nil {
		log.Fatalf("create reader: %v", err)
	}

	book := &bookdomain.Book{
		UID:           uuid.NewString(),
		Title:         "The Go Programming Language",
		Author:        "Alan A. A. Donovan",
		Publisher:     "Addison-Wesley",
		PublishedDate: "2015-10-26",
		PageCount:     380,
		Language:      "en",
		UserUID:       admin.UID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := books.Create(ctx, book); err != nil {
		log.Fatalf("create book: %v", err)
	}

	review := &reviewdomain.Review{
		UID:        uuid.NewString(),
		Rating:     5,
		ReviewText: "A thorough tour of the language.",
		UserUID:    reader.UID,
		BookUID:    book.UID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := reviews.Create(ctx, review); err != nil {
		log.Fatalf("create review: %v", err)
	}

	log.Printf("Seeded admin (%s), reader (%s), 1 book, 1 review. Password: %s", adminEmail, readerEmail, devPassword)
}
