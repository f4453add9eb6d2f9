package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pomovity/internal/model"
	"pomovity/internal/session"
)

const minPasswordLength = 6

// AuthClient is the remote surface for accounts.
type AuthClient interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.AuthResponse, error)
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, change model.PasswordChange) error
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService signs users in and out and moves guest data into the account
// on the first successful login.
type AuthService struct {
	session  *session.Session
	client   AuthClient
	migrator *Migrator
}

func NewAuthService(sess *session.Session, client AuthClient, migrator *Migrator) *AuthService {
	return &AuthService{session: sess, client: client, migrator: migrator}
}

// Register creates the account, signs in with it and migrates guest data.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (MigrationResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	switch {
	case input.Username == "":
		return MigrationResult{}, invalid("username", "Username is required")
	case input.Email == "":
		return MigrationResult{}, invalid("email", "Email is required")
	case input.Password != input.ConfirmPassword:
		return MigrationResult{}, invalid("confirm_password", "Passwords do not match")
	case len(input.Password) < minPasswordLength:
		return MigrationResult{}, invalid("password", "Password must be at least 6 characters long")
	}

	if _, err := s.client.Register(ctx, input.Username, input.Email, input.Password); err != nil {
		return MigrationResult{}, fmt.Errorf("register: %w", err)
	}
	return s.Login(ctx, input.Username, input.Password)
}

// Login stores the returned credentials and, when leaving guest mode,
// migrates any guest data.
func (s *AuthService) Login(ctx context.Context, username, password string) (MigrationResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return MigrationResult{}, invalid("username", "Username and password are required")
	}

	wasGuest := s.session.IsGuest()
	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("login: %w", err)
	}
	if err := s.session.Login(ctx, resp.AccessToken, resp.User); err != nil {
		return MigrationResult{}, err
	}
	log.Printf("[info] signed in as %s", resp.User.Username)

	if !wasGuest {
		return MigrationResult{Success: true}, nil
	}
	return s.migrator.Migrate(ctx), nil
}

// Logout clears stored credentials. Guest data collected afterwards stays on
// the device until the next login.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

func (s *AuthService) Profile(ctx context.Context) (*model.User, error) {
	if s.session.IsGuest() {
		user := model.GuestUser
		return &user, nil
	}
	user, err := s.client.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.UpdateUser(ctx, *user); err != nil {
		log.Printf("cache profile: %v", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	if s.session.IsGuest() {
		return nil, ErrGuestMode
	}
	update.Username = strings.TrimSpace(update.Username)
	update.Email = strings.TrimSpace(update.Email)
	if update.Username == "" && update.Email == "" {
		return nil, invalid("username", "Nothing to update")
	}
	user, err := s.client.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if err := s.session.UpdateUser(ctx, *user); err != nil {
		log.Printf("cache profile: %v", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	switch {
	case current == "":
		return invalid("current_password", "Current password is required")
	case next == "":
		return invalid("new_password", "New password is required")
	case len(next) < minPasswordLength:
		return invalid("new_password", "Password must be at least 6 characters")
	case next != confirm:
		return invalid("confirm_password", "Passwords do not match")
	case next == current:
		return invalid("new_password", "New password must be different from current password")
	}
	if s.session.IsGuest() {
		return ErrGuestMode
	}
	return s.client.ChangePassword(ctx, model.PasswordChange{CurrentPassword: current, NewPassword: next})
}
