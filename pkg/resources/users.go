package resources

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/jrepp/planbook/pkg/apiclient"
	"github.com/jrepp/planbook/pkg/session"
)

// User is the signed-in account.
type User struct {
	ID        int64  `json:"id" yaml:"id"`
	Username  string `json:"username" yaml:"username"`
	Email     string `json:"email" yaml:"email"`
	Avatar    string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
}

// Credentials are used for both login and registration.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the credentials.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

// UserUpdate holds the profile fields to change. Nil fields are left as is.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// UserService talks to the account endpoints.
type UserService struct {
	client *apiclient.Client
}

// Login exchanges credentials for a session token.
func (s *UserService) Login(ctx context.Context, creds Credentials, opts ...apiclient.Option) (string, error) {
	opts = append(opts, apiclient.WithValidation(creds))
	return apiclient.Post[string](ctx, s.client, "/system/user/login", creds, opts...)
}

// Register creates an account.
func (s *UserService) Register(ctx context.Context, creds Credentials, opts ...apiclient.Option) error {
	opts = append(opts, apiclient.WithValidation(creds))
	return exec(s.client.Post(ctx, "/system/user/register", creds, opts...))
}

// Logout invalidates the session token server side.
func (s *UserService) Logout(ctx context.Context, opts ...apiclient.Option) error {
	return exec(s.client.Post(ctx, "/system/user/logout", nil, opts...))
}

// Info returns the signed-in account.
func (s *UserService) Info(ctx context.Context) (*User, error) {
	return apiclient.Get[*User](ctx, s.client, "/user/info")
}

// UpdateInfo changes the signed-in account's profile.
func (s *UserService) UpdateInfo(ctx context.Context, update UserUpdate) (*User, error) {
	return apiclient.Put[*User](ctx, s.client, "/user/info", update)
}

// Auth couples the account endpoints with the local session.
type Auth struct {
	users   *UserService
	session *session.State
}

// Login signs in and stores the token and display name in the session.
func (a *Auth) Login(ctx context.Context, username, password string) error {
	token, err := a.users.Login(ctx, Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("login succeeded without a token")
	}

	var result *multierror.Error
	if err := a.session.SetToken(token); err != nil {
		result = multierror.Append(result, err)
	}
	if err := a.session.SetDisplayName(username); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Logout signs out server side and clears the session. The session is
// cleared even when the server call fails; that failure is still returned.
func (a *Auth) Logout(ctx context.Context) error {
	logoutErr := a.users.Logout(ctx)
	if err := a.session.Clear(); err != nil {
		return multierror.Append(logoutErr, err)
	}
	return logoutErr
}
