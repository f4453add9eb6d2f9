package model

// User is the account profile returned by the remote service.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsGuest  bool   `json:"is_guest,omitempty"`
}

// GuestUser is the identity used while no credentials are stored.
var GuestUser = User{Username: "Guest", IsGuest: true}

// AuthResponse is the body returned by a successful login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PasswordChange is the body of a password update.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
