package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginPrompt     = "Please enter your Username and Password."
	registerWarning = "Warning: Don't use the actual passwords you use for other programs."

	msgUsernameLength   = "Username should be between 5-20 characters."
	msgPasswordLength   = "Password should be between 5-20 characters."
	msgPasswordUsername = "Password cannot contain the username."
	msgUsernameChars    = "Username can only contain letters, numbers, underscores, and dots."
	msgPasswordSpaces   = "Password cannot contain spaces."
	msgPasswordConfirm  = "Password does not match confirm password."
	msgUsernameTaken    = "Username already exists."
	msgUnknownUsername  = "Username does not exist"
	msgBadCredentials   = "Username or Password do not match"

	// Lengths are 5..19 characters inclusive.
	credentialRule = "min=5,max=19"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("register validation " + tag + ": " + err.Error())
	}
}

type credentialStore interface {
	UserByName(ctx context.Context, username string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, u *User) error
}

// AuthService checks and creates credentials. It holds no screen state and is
// shared by the login and register screens.
type AuthService struct {
	store credentialStore
	cost  int
}

func NewAuthService(store credentialStore, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{store: store, cost: cost}
}

// VerifyCredentials re-derives the hash from password and the stored salt.
// An unknown username is reported as ErrNotFound.
func (a *AuthService) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	u, err := a.store.UserByName(ctx, username)
	if err != nil {
		return false, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), saltedDigest(password, u.Salt))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Login returns the user behind username and password, or a *ValidationError
// whose message is meant for the login screen.
func (a *AuthService) Login(ctx context.Context, username, password string) (User, error) {
	exists, err := a.store.UsernameExists(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !exists {
		return User{}, &ValidationError{Field: "username", Message: msgUnknownUsername, Err: ErrNotFound}
	}
	if validate.Var(password, credentialRule) != nil {
		return User{}, invalid("password", msgPasswordLength)
	}
	ok, err := a.VerifyCredentials(ctx, username, password)
	if errors.Is(err, ErrNotFound) {
		return User{}, &ValidationError{Field: "username", Message: msgUnknownUsername, Err: err}
	}
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, invalid("password", msgBadCredentials)
	}
	u, err := a.store.UserByName(ctx, username)
	if err != nil {
		return User{}, err
	}
	log.Printf("user %q logged in", username)
	return u, nil
}

// checkRegistration applies the registration rules in order and reports the
// first one broken.
func checkRegistration(username, password, confirm string) *ValidationError {
	switch {
	case validate.Var(username, credentialRule) != nil:
		return invalid("username", msgUsernameLength)
	case validate.Var(password, credentialRule) != nil:
		return invalid("password", msgPasswordLength)
	case strings.Contains(strings.ToLower(password), strings.ToLower(username)):
		return invalid("password", msgPasswordUsername)
	case validate.Var(username, "username") != nil:
		return invalid("username", msgUsernameChars)
	case strings.Contains(password, " "):
		return invalid("password", msgPasswordSpaces)
	case password != confirm:
		return invalid("confirmPassword", msgPasswordConfirm)
	}
	return nil
}

// Register validates the form, then stores a new user with a fresh salt.
func (a *AuthService) Register(ctx context.Context, username, password, confirm string) (User, error) {
	if verr := checkRegistration(username, password, confirm); verr != nil {
		return User{}, verr
	}
	salt, err := newSalt()
	if err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword(saltedDigest(password, salt), a.cost)
	if err != nil {
		return User{}, err
	}
	u := User{
		Username:     username,
		PasswordHash: string(hash),
		Salt:         salt,
		CreatedAt:    time.Now(),
	}
	if err := a.store.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return User{}, &ValidationError{Field: "username", Message: msgUsernameTaken, Err: err}
		}
		return User{}, err
	}
	log.Printf("registered user %q (id=%d)", u.Username, u.ID)
	return u, nil
}

// saltedDigest is what bcrypt hashes. bcrypt stops at 72 bytes, so the salted
// password is reduced to a fixed 64 byte hex digest first.
func saltedDigest(password, salt string) []byte {
	sum := sha256.Sum256([]byte(password + salt))
	return []byte(hex.EncodeToString(sum[:]))
}

func newSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
