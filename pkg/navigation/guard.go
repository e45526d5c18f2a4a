package navigation

import (
	"context"
	"net/url"
	"strings"
)

// Outcome is the result of guarding one navigation attempt.
type Outcome int

const (
	Allowed Outcome = iota
	Redirected
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Redirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Decision is where a navigation attempt ends up.
type Decision struct {
	Outcome Outcome
	Target  Location
}

// LoginStatus reports whether a session is active. *session.State satisfies
// it.
type LoginStatus interface {
	IsLoggedIn() bool
}

// Guard checks navigation attempts against the session before they
// complete.
type Guard struct {
	routes  []Route
	session LoginStatus
	auth    string
	landing string
}

// GuardOption customizes a Guard.
type GuardOption func(*Guard)

// WithRoutes replaces the route table.
func WithRoutes(routes []Route) GuardOption {
	return func(g *Guard) {
		g.routes = routes
	}
}

// WithAuthPath sets the authentication entry point.
func WithAuthPath(path string) GuardOption {
	return func(g *Guard) {
		g.auth = path
	}
}

// WithLandingPath sets where signed-in users land when they open the
// authentication entry point.
func WithLandingPath(path string) GuardOption {
	return func(g *Guard) {
		g.landing = path
	}
}

// NewGuard creates a guard over the session.
func NewGuard(session LoginStatus, opts ...GuardOption) *Guard {
	g := &Guard{
		routes:  DefaultRoutes,
		session: session,
		auth:    PathAuth,
		landing: PathDashboard,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check decides the outcome of navigating to dest.
func (g *Guard) Check(dest Location) Decision {
	loggedIn := g.session.IsLoggedIn()

	if g.requiresAuth(dest.Path) && !loggedIn {
		return Decision{
			Outcome: Redirected,
			Target: Location{
				Path:  g.auth,
				Query: url.Values{RedirectParam: []string{dest.String()}},
			},
		}
	}

	if dest.Path == g.auth && loggedIn {
		return Decision{
			Outcome: Redirected,
			Target:  Location{Path: g.landing},
		}
	}

	return Decision{Outcome: Allowed, Target: dest}
}

// Navigate checks dest and moves nav to wherever the decision points.
func (g *Guard) Navigate(ctx context.Context, nav Navigator, dest Location) (Decision, error) {
	d := g.Check(dest)
	return d, nav.NavigateTo(ctx, d.Target)
}

// ReturnTarget extracts the originally requested location from an
// authentication entry point location, defaulting to the landing path.
func (g *Guard) ReturnTarget(at Location) Location {
	if raw := at.Query.Get(RedirectParam); raw != "" {
		if loc, err := ParseLocation(raw); err == nil && loc.Path != g.auth {
			return loc
		}
	}
	return Location{Path: g.landing}
}

// requiresAuth matches path against the route table. A route covers its own
// path and everything below it.
func (g *Guard) requiresAuth(path string) bool {
	for _, r := range g.routes {
		if !r.RequiresAuth {
			continue
		}
		if path == r.Path || strings.HasPrefix(path, strings.TrimRight(r.Path, "/")+"/") {
			return true
		}
	}
	return false
}
