package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockdesk/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	repo := NewUserRepository(testStore.DB())
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string, name string) bool {
			// Clean up before each run
			_, _ = testStore.DB().Exec("DELETE FROM users WHERE email = $1", email)

			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				t.Logf("Failed to hash password: %v", err)
				return false
			}

			user := &domain.User{
				ID:           uuid.New(),
				Email:        email,
				PasswordHash: string(hashedPassword),
				Name:         name,
				Roles:        []string{"user"},
				TenantID:     "tenant-1",
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}

			if err := repo.Create(ctx, user); err != nil {
				t.Logf("Failed to create user: %v", err)
				return false
			}

			retrieved, err := repo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("Failed to find user: %v", err)
				return false
			}

			if retrieved.PasswordHash == password {
				t.Logf("Password was stored as plaintext!")
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(retrieved.PasswordHash), []byte(password)); err != nil {
				t.Logf("Stored password is not a valid bcrypt hash: %v", err)
				return false
			}

			_, _ = testStore.DB().Exec("DELETE FROM users WHERE email = $1", email)

			return true
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(testStore.DB())
	ctx := context.Background()

	newUser := func(email string) *domain.User {
		return &domain.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: "$2a$10$notarealhashbutlongenough1234567890123456",
			Name:         "Test User",
			Roles:        []string{"admin", "catalog-manager"},
			TenantID:     "tenant-9",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
	}

	t.Run("round trips roles and tenant", func(t *testing.T) {
		user := newUser("roles@example.com")
		defer testStore.DB().Exec("DELETE FROM users WHERE email = $1", user.Email)

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := repo.FindByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("find by id: %v", err)
		}
		if len(got.Roles) != 2 || got.Roles[0] != "admin" || got.Roles[1] != "catalog-manager" {
			t.Errorf("roles mismatch: %v", got.Roles)
		}
		if got.TenantID != "tenant-9" {
			t.Errorf("tenant mismatch: %q", got.TenantID)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		user := newUser("dupe@example.com")
		defer testStore.DB().Exec("DELETE FROM users WHERE email = $1", user.Email)

		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("create: %v", err)
		}

		again := newUser("dupe@example.com")
		if err := repo.Create(ctx, again); !errors.Is(err, ErrUserAlreadyExists) {
			t.Errorf("expected ErrUserAlreadyExists, got %v", err)
		}
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestRefreshTokenRepository(t *testing.T) {
	users := NewUserRepository(testStore.DB())
	repo := NewRefreshTokenRepository(testStore.DB())
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "tokens@example.com",
		PasswordHash: "$2a$10$notarealhashbutlongenough1234567890123456",
		Name:         "Token Owner",
		Roles:        []string{"user"},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	defer testStore.DB().Exec("DELETE FROM users WHERE email = $1", user.Email)

	token := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("create token: %v", err)
	}

	found, err := repo.FindByToken(ctx, token.Token)
	if err != nil {
		t.Fatalf("find token: %v", err)
	}
	if found.UserID != user.ID {
		t.Errorf("token owner mismatch: %s", found.UserID)
	}

	if err := repo.Revoke(ctx, token.Token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := repo.FindByToken(ctx, token.Token); !errors.Is(err, ErrRefreshTokenRevoked) {
		t.Errorf("expected ErrRefreshTokenRevoked, got %v", err)
	}

	if _, err := repo.FindByToken(ctx, "no-such-token"); !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Errorf("expected ErrRefreshTokenNotFound, got %v", err)
	}
}
