// Command xtrack is the terminal client for the attendance API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/client/credstore"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/client/xtrack"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:4000/api/v1"

// errNotLoggedIn is returned by commands that need a stored token.
var errNotLoggedIn = errors.New("not logged in, run `xtrack login` first")

// app carries what every sub-command needs once flags are parsed.
type app struct {
	serverURL string
	credPath  string
	timezone  string

	store  *credstore.Store
	client *xtrack.Client
	out    io.Writer
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "xtrack",
		Short:         "Check in, check out and file work reports",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	server := os.Getenv("XTRACK_SERVER")
	if server == "" {
		server = defaultServer
	}
	cmd.PersistentFlags().StringVar(&a.serverURL, "server", server, "API base URL (env XTRACK_SERVER)")
	cmd.PersistentFlags().StringVar(&a.credPath, "credentials", "", "credential file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&a.timezone, "timezone", "Local", "zone that decides which day is today")

	cmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newCheckInCmd(a),
		newCheckOutCmd(a),
		newReportCmd(a),
		newSummaryCmd(a),
		newCalendarCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.credPath
	if path == "" {
		var err error
		if path, err = credstore.DefaultPath(); err != nil {
			return err
		}
	}

	store, err := credstore.Open(path)
	if err != nil {
		return err
	}

	a.store = store
	a.client = xtrack.NewClient(a.serverURL, store)
	a.out = cmd.OutOrStdout()
	return nil
}

// requireLogin fails fast when no usable token is stored.
func (a *app) requireLogin() error {
	if a.store.Token() == "" {
		return errNotLoggedIn
	}
	return nil
}

// apiError rewrites an unauthorized response into a login hint.
func (a *app) apiError(err error) error {
	var apiErr *xtrack.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		if clearErr := a.store.Clear(); clearErr != nil {
			slog.Warn("failed to clear credentials", "error", clearErr)
		}
		return fmt.Errorf("%s: %w", apiErr.Message, errNotLoggedIn)
	}
	return err
}
