package service

import (
	"context"
	"errors"
	"testing"

	"pomovity/internal/model"
	"pomovity/internal/session"
	"pomovity/internal/store"
)

type fakeAuthClient struct {
	registered []string
	logins     int
	passwords  []model.PasswordChange
}

func (f *fakeAuthClient) Register(_ context.Context, username, _, _ string) (*model.User, error) {
	f.registered = append(f.registered, username)
	return &model.User{ID: 1, Username: username}, nil
}

func (f *fakeAuthClient) Login(_ context.Context, username, password string) (*model.AuthResponse, error) {
	f.logins++
	if password == "wrong" {
		return nil, errors.New("api: 401 Invalid credentials")
	}
	return &model.AuthResponse{AccessToken: "tok-" + username, User: model.User{ID: 1, Username: username}}, nil
}

func (f *fakeAuthClient) Profile(context.Context) (*model.User, error) {
	return &model.User{ID: 1, Username: "ann", Email: "ann@example.com"}, nil
}

func (f *fakeAuthClient) UpdateProfile(_ context.Context, update model.ProfileUpdate) (*model.User, error) {
	return &model.User{ID: 1, Username: update.Username, Email: update.Email}, nil
}

func (f *fakeAuthClient) ChangePassword(_ context.Context, change model.PasswordChange) error {
	f.passwords = append(f.passwords, change)
	return nil
}

type authFixture struct {
	auth    *AuthService
	client  *fakeAuthClient
	remote  *fakeRemote
	local   *store.Local
	session *session.Session
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	entries := newTestEntries(t)
	sess, err := session.Load(context.Background(), entries)
	if err != nil {
		t.Fatalf("session.Load: %v", err)
	}
	local := store.NewLocal(entries)
	remote := &fakeRemote{}
	client := &fakeAuthClient{}
	return authFixture{
		auth:    NewAuthService(sess, client, NewMigrator(sess, local, remote)),
		client:  client,
		remote:  remote,
		local:   local,
		session: sess,
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	cases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"mismatch", RegisterInput{Username: "ann", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret2"}, "confirm_password"},
		{"weak", RegisterInput{Username: "ann", Email: "a@b.c", Password: "abc", ConfirmPassword: "abc"}, "password"},
		{"no email", RegisterInput{Username: "ann", Password: "secret1", ConfirmPassword: "secret1"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Register(context.Background(), tc.input)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("err = %v, want %s validation error", err, tc.field)
			}
		})
	}
	if len(f.client.registered) != 0 || f.client.logins != 0 {
		t.Error("client called for invalid registration")
	}
}

func TestRegisterLogsInAndMigrates(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.local.CreateTask(ctx, model.TaskInput{Title: "guest task"})
	f.local.CreatePomodoro(ctx, model.PomodoroInput{Duration: 25, Type: model.PomodoroWork})

	result, err := f.auth.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !result.Migrated || result.Tasks != 1 || result.Pomodoros != 1 {
		t.Errorf("result = %+v", result)
	}
	if f.session.IsGuest() || f.session.Token() != "tok-ann" {
		t.Errorf("session token = %q", f.session.Token())
	}
	if f.local.HasGuestData(ctx) {
		t.Error("guest data left after migration")
	}
}

func TestLoginFailureKeepsGuestData(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.local.CreateTask(ctx, model.TaskInput{Title: "guest task"})

	if _, err := f.auth.Login(ctx, "ann", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if !f.session.IsGuest() || !f.local.HasGuestData(ctx) {
		t.Error("failed login changed guest state")
	}
}

func TestSecondLoginDoesNotMigrate(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	if _, err := f.auth.Login(ctx, "ann", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	f.local.CreateTask(ctx, model.TaskInput{Title: "stray"})

	result, err := f.auth.Login(ctx, "ann", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Migrated || f.remote.calls != 0 {
		t.Errorf("result = %+v, remote calls %d", result, f.remote.calls)
	}
}

func TestLogoutRevertsToGuest(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.auth.Login(ctx, "ann", "pw")
	if err := f.auth.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	user, err := f.auth.Profile(ctx)
	if err != nil || !user.IsGuest {
		t.Errorf("Profile after logout = %+v, %v", user, err)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.auth.Login(ctx, "ann", "pw")

	cases := [][3]string{
		{"", "newpass", "newpass"},
		{"oldpass", "short", "short"},
		{"oldpass", "newpass", "other"},
		{"samepass", "samepass", "samepass"},
	}
	for _, c := range cases {
		if err := f.auth.ChangePassword(ctx, c[0], c[1], c[2]); err == nil {
			t.Errorf("ChangePassword(%q, %q, %q) succeeded", c[0], c[1], c[2])
		}
	}
	if len(f.client.passwords) != 0 {
		t.Fatal("client called for invalid password change")
	}

	if err := f.auth.ChangePassword(ctx, "oldpass", "newpass", "newpass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if len(f.client.passwords) != 1 || f.client.passwords[0].NewPassword != "newpass" {
		t.Errorf("sent %+v", f.client.passwords)
	}
}

func TestUpdateProfileCachesUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	if _, err := f.auth.UpdateProfile(ctx, model.ProfileUpdate{Username: "x"}); !errors.Is(err, ErrGuestMode) {
		t.Errorf("guest UpdateProfile err = %v", err)
	}
	f.auth.Login(ctx, "ann", "pw")
	if _, err := f.auth.UpdateProfile(ctx, model.ProfileUpdate{Username: "anna", Email: "anna@example.com"}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got := f.session.User().Username; got != "anna" {
		t.Errorf("cached username = %q", got)
	}
}
