package status

import (
	"flag"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/pkg/resources"
)

type Command struct {
	*base.Command

	flagCheck bool
}

// View is the rendered status.
type View struct {
	LoggedIn       bool            `json:"loggedIn" yaml:"loggedIn"`
	DisplayName    string          `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	BaseURL        string          `json:"baseUrl" yaml:"baseUrl"`
	SessionBackend string          `json:"sessionBackend" yaml:"sessionBackend"`
	SidebarOpen    bool            `json:"sidebarOpen" yaml:"sidebarOpen"`
	Token          *TokenView      `json:"token,omitempty" yaml:"token,omitempty"`
	Account        *resources.User `json:"account,omitempty" yaml:"account,omitempty"`
}

// TokenView describes the session token. Claims are read without
// verifying the signature; only the backend can do that.
type TokenView struct {
	Opaque    bool       `json:"opaque" yaml:"opaque"`
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty" yaml:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
	Expired   bool       `json:"expired" yaml:"expired"`
}

func (c *Command) Synopsis() string {
	return "Show the current session"
}

func (c *Command) Help() string {
	return `Usage: planbook status [options]

  Shows whether a session is stored, who it belongs to, and when its token
  expires. With -check the backend is asked to confirm the session.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("status", flag.ContinueOnError))
	c.CommonFlags(f)

	f.BoolVar(
		&c.flagCheck, "check", false,
		"Confirm the session with the backend.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	rt, code := c.ParseAndSetup(c.Flags(), args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	view := View{
		LoggedIn:       rt.Session.IsLoggedIn(),
		DisplayName:    rt.Session.DisplayName(),
		BaseURL:        rt.Client.BaseURL(),
		SessionBackend: rt.Config.Session.Backend,
		SidebarOpen:    rt.Preferences.SidebarOpen(),
	}
	if view.LoggedIn {
		view.Token = InspectToken(rt.Session.Token(), time.Now())
	}

	if c.flagCheck && view.LoggedIn {
		ctx, cancel := c.Context()
		defer cancel()

		user, err := rt.Services.Users.Info(ctx)
		if err != nil {
			return c.Fail(err)
		}
		view.Account = user
	}

	if err := c.Render(view); err != nil {
		return c.Fail(err)
	}
	return 0
}

// InspectToken reads the standard claims of a JWT session token. Tokens
// that are not JWTs are reported as opaque.
func InspectToken(token string, now time.Time) *TokenView {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return &TokenView{Opaque: true}
	}

	view := &TokenView{}
	if sub, err := claims.GetSubject(); err == nil {
		view.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time.UTC()
		view.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		view.ExpiresAt = &t
		view.Expired = !now.Before(t)
	}
	return view
}
