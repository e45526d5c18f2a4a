package navigation

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession bool

func (s fakeSession) IsLoggedIn() bool { return bool(s) }

func TestGuardCheck(t *testing.T) {
	tests := []struct {
		name        string
		loggedIn    bool
		dest        string
		wantOutcome Outcome
		wantTarget  string
	}{
		{
			name:        "protected and logged out redirects to auth",
			loggedIn:    false,
			dest:        "/dashboard",
			wantOutcome: Redirected,
			wantTarget:  "/auth?redirect=%2Fdashboard",
		},
		{
			name:        "nested protected path keeps query in return target",
			loggedIn:    false,
			dest:        "/dashboard/notes?id=7",
			wantOutcome: Redirected,
			wantTarget:  "/auth?redirect=%2Fdashboard%2Fnotes%3Fid%3D7",
		},
		{
			name:        "protected and logged in is allowed",
			loggedIn:    true,
			dest:        "/dashboard",
			wantOutcome: Allowed,
			wantTarget:  "/dashboard",
		},
		{
			name:        "auth while logged in goes to landing page",
			loggedIn:    true,
			dest:        "/auth",
			wantOutcome: Redirected,
			wantTarget:  "/dashboard",
		},
		{
			name:        "auth while logged out is allowed",
			loggedIn:    false,
			dest:        "/auth",
			wantOutcome: Allowed,
			wantTarget:  "/auth",
		},
		{
			name:        "public page logged out",
			loggedIn:    false,
			dest:        "/",
			wantOutcome: Allowed,
			wantTarget:  "/",
		},
		{
			name:        "public page logged in",
			loggedIn:    true,
			dest:        "/",
			wantOutcome: Allowed,
			wantTarget:  "/",
		},
		{
			name:        "path sharing a prefix is not protected",
			loggedIn:    false,
			dest:        "/dashboards",
			wantOutcome: Allowed,
			wantTarget:  "/dashboards",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := ParseLocation(tt.dest)
			require.NoError(t, err)

			d := NewGuard(fakeSession(tt.loggedIn)).Check(dest)
			assert.Equal(t, tt.wantOutcome, d.Outcome)
			assert.Equal(t, tt.wantTarget, d.Target.String())
		})
	}
}

func TestGuardCustomRoutes(t *testing.T) {
	g := NewGuard(fakeSession(false),
		WithRoutes([]Route{{Name: "notes", Path: "/notes", RequiresAuth: true}}),
		WithAuthPath("/login"),
		WithLandingPath("/home"),
	)

	d := g.Check(Location{Path: "/notes"})
	assert.Equal(t, Redirected, d.Outcome)
	assert.Equal(t, "/login", d.Target.Path)
	assert.Equal(t, "/notes", d.Target.Query.Get(RedirectParam))

	// The default dashboard route is no longer in the table.
	assert.Equal(t, Allowed, g.Check(Location{Path: "/dashboard"}).Outcome)

	assert.Equal(t, "/notes", g.ReturnTarget(d.Target).Path)
	assert.Equal(t, "/home", g.ReturnTarget(Location{Path: "/login"}).Path)
}

func TestGuardNavigate(t *testing.T) {
	h := NewHistory(Location{Path: "/"}, nil)
	g := NewGuard(fakeSession(false))

	d, err := g.Navigate(context.Background(), h, Location{Path: "/dashboard"})
	require.NoError(t, err)
	assert.Equal(t, Redirected, d.Outcome)
	assert.Equal(t, "/auth", h.Current().Path)
	assert.Equal(t, "/dashboard", h.Current().Query.Get(RedirectParam))
}

func TestReturnTargetIgnoresLoops(t *testing.T) {
	g := NewGuard(fakeSession(true))
	at := Location{Path: "/auth", Query: url.Values{RedirectParam: {"/auth"}}}
	assert.Equal(t, "/dashboard", g.ReturnTarget(at).Path)
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("")
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)

	loc, err = ParseLocation("dashboard?tab=plans")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", loc.Path)
	assert.Equal(t, "plans", loc.Query.Get("tab"))

	_, err = ParseLocation("https://evil.example.com/dashboard")
	require.Error(t, err)
}

func TestHistory(t *testing.T) {
	var forwarded []string
	next := NavigatorFunc(func(ctx context.Context, to Location) error {
		forwarded = append(forwarded, to.String())
		return nil
	})

	h := NewHistory(Location{Path: "/dashboard"}, next)
	ctx := context.Background()

	require.NoError(t, h.NavigateTo(ctx, Location{Path: "/auth"}))
	require.NoError(t, h.NavigateTo(ctx, Location{Path: "/auth"}))
	require.NoError(t, h.NavigateTo(ctx, Location{Path: "/"}))

	assert.Len(t, h.Navigations(), 2)
	assert.Equal(t, []string{"/auth", "/"}, forwarded)
	assert.Equal(t, "/", h.Current().Path)
}

func TestBrowser(t *testing.T) {
	b, err := NewBrowser("https://planbook.example.com/app/", nil)
	require.NoError(t, err)

	var opened string
	b.open = func(u string) error {
		opened = u
		return nil
	}

	to := Location{Path: "/auth", Query: url.Values{RedirectParam: {"/dashboard"}}}
	require.NoError(t, b.NavigateTo(context.Background(), to))
	assert.Equal(t, "https://planbook.example.com/app/auth?redirect=%2Fdashboard", opened)

	b.open = func(string) error { return errors.New("no display") }
	require.Error(t, b.NavigateTo(context.Background(), to))

	_, err = NewBrowser("ftp://planbook.example.com", nil)
	require.Error(t, err)
}
