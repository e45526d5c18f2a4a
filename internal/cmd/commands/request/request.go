package request

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrepp/planbook/internal/cmd/base"
	"github.com/jrepp/planbook/pkg/apiclient"
)

type Command struct {
	*base.Command

	flagData    string
	flagQuery   base.StringSliceFlag
	flagHeader  base.StringSliceFlag
	flagSuccess bool
	flagQuiet   bool
}

func (c *Command) Synopsis() string {
	return "Send an arbitrary request to the backend"
}

func (c *Command) Help() string {
	return `Usage: planbook request [options] <method> <path>

  Sends a request through the same pipeline as every other command and
  prints the unwrapped payload. Paths are relative to the API base URL.

  Example:
    planbook request -data='{"title":"ship it"}' POST /plan/plan/create` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("request", flag.ContinueOnError))
	c.CommonFlags(f)

	f.StringVar(
		&c.flagData, "data", "",
		"JSON request body.",
	)
	f.Var(
		&c.flagQuery, "query",
		"Query parameter as key=value. Can be repeated.",
	)
	f.Var(
		&c.flagHeader, "header",
		"Request header as key=value. Can be repeated.",
	)
	f.BoolVar(
		&c.flagSuccess, "success-message", false,
		"Report the backend's success message.",
	)
	f.BoolVar(
		&c.flagQuiet, "quiet", false,
		"Do not report failures; only the exit code signals them.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	c.flagQuery, c.flagHeader = nil, nil

	f := c.Flags()
	rt, code := c.ParseAndSetup(f, args)
	if rt == nil {
		return code
	}
	defer rt.Close()

	if f.NArg() != 2 {
		c.UI.Error("expected <method> <path>")
		return 1
	}
	method := strings.ToUpper(f.Arg(0))
	path := f.Arg(1)

	req := &apiclient.Request{
		Method:             method,
		Path:               path,
		Query:              url.Values{},
		Header:             http.Header{},
		HideErrorMessage:   c.flagQuiet,
		ShowSuccessMessage: c.flagSuccess,
	}
	switch method {
	case http.MethodGet, http.MethodDelete:
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if c.flagData != "" {
			if !json.Valid([]byte(c.flagData)) {
				c.UI.Error("-data is not valid JSON")
				return 1
			}
			req.Body = json.RawMessage(c.flagData)
		}
	default:
		c.UI.Error(fmt.Sprintf("unsupported method %q", method))
		return 1
	}

	query, err := base.KeyValues(c.flagQuery)
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid -query: %v", err))
		return 1
	}
	for k, v := range query {
		req.Query.Add(k, v)
	}
	headers, err := base.KeyValues(c.flagHeader)
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid -header: %v", err))
		return 1
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	ctx, cancel := c.Context()
	defer cancel()

	payload, err := rt.Client.Do(ctx, req)
	if err != nil {
		return c.Fail(err)
	}
	if err := c.RenderRaw(payload); err != nil {
		return c.Fail(err)
	}
	return 0
}
