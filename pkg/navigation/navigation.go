// Package navigation models where the user is in the application and guards
// moves into areas that need a signed-in session.
package navigation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Well-known locations.
const (
	PathLanding   = "/"
	PathAuth      = "/auth"
	PathDashboard = "/dashboard"

	// RedirectParam carries the originally requested path through the
	// authentication entry point.
	RedirectParam = "redirect"
)

// Location is a navigation destination.
type Location struct {
	Path  string
	Query url.Values
}

// ParseLocation parses "path?query" into a Location. An empty string is the
// landing page.
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{Path: PathLanding}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", raw, err)
	}
	if u.IsAbs() || u.Host != "" {
		return Location{}, fmt.Errorf("location must be a path, got %q", raw)
	}
	loc := Location{Path: u.Path}
	if loc.Path == "" {
		loc.Path = PathLanding
	}
	if !strings.HasPrefix(loc.Path, "/") {
		loc.Path = "/" + loc.Path
	}
	if u.RawQuery != "" {
		loc.Query = u.Query()
	}
	return loc, nil
}

// String renders the location as "path?query".
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Equal reports whether two locations render identically.
func (l Location) Equal(other Location) bool {
	return l.String() == other.String()
}

// Navigator moves the user to a location.
type Navigator interface {
	NavigateTo(ctx context.Context, to Location) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, to Location) error

func (f NavigatorFunc) NavigateTo(ctx context.Context, to Location) error {
	return f(ctx, to)
}

// Route describes one destination of the application.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
}

// DefaultRoutes are the destinations of the planbook web application.
var DefaultRoutes = []Route{
	{Name: "landing", Path: PathLanding},
	{Name: "auth", Path: PathAuth},
	{Name: "dashboard", Path: PathDashboard, RequiresAuth: true},
}
