package base

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/cli"

	"github.com/jrepp/planbook/internal/config"
	"github.com/jrepp/planbook/internal/version"
	"github.com/jrepp/planbook/pkg/apiclient"
	"github.com/jrepp/planbook/pkg/kvstore"
	"github.com/jrepp/planbook/pkg/navigation"
	"github.com/jrepp/planbook/pkg/notify"
	"github.com/jrepp/planbook/pkg/resources"
	"github.com/jrepp/planbook/pkg/session"
	"github.com/jrepp/planbook/pkg/unauthorized"
)

// Runtime is everything a command needs to talk to the backend.
type Runtime struct {
	Config      *config.Config
	Store       kvstore.Store
	Session     *session.State
	Preferences *session.Preferences
	Notifier    notify.Notifier
	Browser     *navigation.Browser
	History     *navigation.History
	Guard       *navigation.Guard
	Client      *apiclient.Client
	Services    *resources.Services

	closers []io.Closer
}

// Runtime loads configuration and wires the session, notification channel,
// navigation, and API client. Callers must Close the result.
func (c *Command) Runtime() (*Runtime, error) {
	cfg, err := config.Load(c.Fs, c.flagConfig)
	if err != nil {
		return nil, err
	}
	c.SetupLogging(cfg.Level())

	rt := &Runtime{Config: cfg}

	store, closer, err := c.openStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	rt.Store = store
	if closer != nil {
		rt.closers = append(rt.closers, closer)
	}

	rt.Session, err = session.Load(store, c.Log.Named("session"))
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Preferences, err = session.LoadPreferences(store)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Notifier = uiNotifier{ui: c.UI}
	if cfg.Notifications != nil {
		rt.Notifier = notify.NewFanout(rt.Notifier, notify.New(cfg.Notifications, c.Log.Named("notify")))
	}

	rt.Browser, err = navigation.NewBrowser(cfg.Navigation.AppURL, c.Log.Named("browser"))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("invalid navigation config: %w", err)
	}
	var next navigation.Navigator = navigation.NavigatorFunc(func(_ context.Context, to navigation.Location) error {
		c.UI.Warn(fmt.Sprintf("Sign in with \"planbook login\" or at %s", rt.Browser.URL(to)))
		return nil
	})
	if cfg.Navigation.OpenBrowser {
		next = rt.Browser
	}
	rt.History = navigation.NewHistory(navigation.Location{Path: navigation.PathDashboard}, next)
	rt.Guard = navigation.NewGuard(rt.Session)

	apiCfg := cfg.APIClient()
	apiCfg.UserAgent = "planbook/" + version.Version
	rt.Client, err = apiclient.New(apiCfg, apiclient.Dependencies{
		Session:  rt.Session,
		Notifier: rt.Notifier,
		Unauthorized: unauthorized.New(unauthorized.Config{
			Session:   rt.Session,
			Notifier:  rt.Notifier,
			Navigator: rt.History,
			Logger:    c.Log.Named("unauthorized"),
		}),
		Logger: c.Log,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Services = resources.New(rt.Client, rt.Session)

	c.Log.Debug("runtime ready",
		"base_url", rt.Client.BaseURL(),
		"session_backend", cfg.Session.Backend,
		"logged_in", rt.Session.IsLoggedIn(),
	)
	return rt, nil
}

func (c *Command) openStore(cfg *config.Session) (kvstore.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		store, err := kvstore.OpenSQLite(cfg.Path, c.Log.Named("store"))
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		store, err := kvstore.OpenFile(c.Fs, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

// Close releases the session store.
func (r *Runtime) Close() error {
	var result *multierror.Error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	r.closers = nil
	return result.ErrorOrNil()
}

// uiNotifier shows notices on the terminal.
type uiNotifier struct {
	ui cli.Ui
}

func (n uiNotifier) Name() string {
	return "ui"
}

func (n uiNotifier) Notify(_ context.Context, notice notify.Notice) error {
	switch notice.Level {
	case notify.LevelError:
		n.ui.Error(notice.Message)
	case notify.LevelWarning:
		n.ui.Warn(notice.Message)
	default:
		n.ui.Info(notice.Message)
	}
	return nil
}
