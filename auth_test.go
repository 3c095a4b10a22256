package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) (*AuthService, *Store) {
	t.Helper()
	s := newTestStore(t, 1)
	return NewAuthService(s, bcrypt.MinCost), s
}

func TestCheckRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		want     string
	}{
		{"username too short", "ab", "secret123", "secret123", msgUsernameLength},
		{"username too long", strings.Repeat("a", 20), "secret123", "secret123", msgUsernameLength},
		{"password too short", "playerone", "abc", "abc", msgPasswordLength},
		{"password too long", "playerone", strings.Repeat("x", 20), strings.Repeat("x", 20), msgPasswordLength},
		{"password contains username", "playerone", "myPlayerOne1", "myPlayerOne1", msgPasswordUsername},
		{"bad username characters", "bad name!", "secret123", "secret123", msgUsernameChars},
		{"password with space", "playerone", "sec ret12", "sec ret12", msgPasswordSpaces},
		{"confirm mismatch", "playerone", "secret123", "secret124", msgPasswordConfirm},
		{"valid", "player.one_2", "secret123", "secret123", ""},
		{"shortest valid", "abcde", "12345", "12345", ""},
		{"longest valid", strings.Repeat("a", 19), strings.Repeat("x", 19), strings.Repeat("x", 19), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			if verr := checkRegistration(tt.username, tt.password, tt.confirm); verr != nil {
				got = verr.Message
			}
			if got != tt.want {
				t.Errorf("checkRegistration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	auth, store := newTestAuth(t)
	ctx := context.Background()

	u, err := auth.Register(ctx, "playerone", "secret123", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	stored, err := store.UserByName(ctx, "playerone")
	if err != nil {
		t.Fatal(err)
	}
	if stored.ID != u.ID || stored.Salt == "" || strings.Contains(stored.PasswordHash, "secret123") {
		t.Fatalf("stored user looks wrong: %+v", stored)
	}

	ok, err := auth.VerifyCredentials(ctx, "playerone", "secret123")
	if err != nil || !ok {
		t.Fatalf("VerifyCredentials(good) = %v, %v", ok, err)
	}
	ok, err = auth.VerifyCredentials(ctx, "playerone", "secret124")
	if err != nil || ok {
		t.Fatalf("VerifyCredentials(bad) = %v, %v", ok, err)
	}
	if _, err := auth.VerifyCredentials(ctx, "nobody", "secret123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("VerifyCredentials(unknown) err = %v, want ErrNotFound", err)
	}

	got, err := auth.Login(ctx, "playerone", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("login user id = %d, want %d", got.ID, u.ID)
	}
}

func TestRegisterMultiBytePassword(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"emoji", "playerone", strings.Repeat("😀", 11) + "a"},
		{"longest in runes", "playertwo", strings.Repeat("ж", 19)},
		{"mixed", "player.three", "häßlich€€€"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.Register(ctx, tt.username, tt.password, tt.password); err != nil {
				t.Fatalf("register: %v", err)
			}
			if _, err := auth.Login(ctx, tt.username, tt.password); err != nil {
				t.Fatalf("login: %v", err)
			}
			if ok, _ := auth.VerifyCredentials(ctx, tt.username, tt.password+"x"); ok {
				t.Error("a longer password verified")
			}
		})
	}
}

func TestRegisterUsernameTaken(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()
	if _, err := auth.Register(ctx, "playerone", "secret123", "secret123"); err != nil {
		t.Fatal(err)
	}
	_, err := auth.Register(ctx, "playerone", "another1", "another1")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != msgUsernameTaken {
		t.Fatalf("err = %v, want %q", err, msgUsernameTaken)
	}
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err does not wrap ErrUsernameTaken")
	}
}

func TestLoginFailures(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()
	if _, err := auth.Register(ctx, "playerone", "secret123", "secret123"); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{"unknown username", "nobody", "secret123", msgUnknownUsername},
		{"password too short", "playerone", "abc", msgPasswordLength},
		{"wrong password", "playerone", "secret999", msgBadCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(ctx, tt.username, tt.password)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want a ValidationError", err)
			}
			if ve.Message != tt.want {
				t.Errorf("message = %q, want %q", ve.Message, tt.want)
			}
		})
	}
}

func TestMustRegisterPanicsOnBadTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an empty tag")
		}
	}()
	mustRegister(validator.New(), "", func(validator.FieldLevel) bool { return true })
}
