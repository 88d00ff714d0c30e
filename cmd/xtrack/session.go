package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/service/session"
	"github.com/spf13/cobra"
)

// tracker loads today's session for the signed-in worker.
func (a *app) tracker(cmd *cobra.Command) (*session.Tracker, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(a.timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", a.timezone, err)
	}

	t := session.NewTracker(a.client, session.WithLocation(loc))
	if err := t.Load(cmd.Context()); err != nil {
		t.Close()
		return nil, a.apiError(err)
	}
	return t, nil
}

func newStatusCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's session",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			state := t.State()
			a.printState(state)
			if !watch || state.Kind != session.CheckedIn {
				return nil
			}

			t.Watch(cmd.Context(), func(_ session.State, elapsed int64) {
				fmt.Fprintf(a.out, "\r%s", timeunit.FormatClock(elapsed))
			})
			<-cmd.Context().Done()
			fmt.Fprintln(a.out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep a live clock running while checked in")
	return cmd
}

func newCheckInCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-in",
		Short: "Start today's session",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			if err := t.CheckIn(cmd.Context()); err != nil {
				return a.transitionError(err)
			}
			a.printState(t.State())
			return nil
		},
	}
}

func newCheckOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-out",
		Short: "End today's session",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.tracker(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			if err := t.CheckOut(cmd.Context()); err != nil {
				return a.transitionError(err)
			}
			a.printState(t.State())
			return nil
		},
	}
}

func (a *app) transitionError(err error) error {
	if errors.Is(err, session.ErrInvalidTransition) {
		return err
	}
	return a.apiError(err)
}

func (a *app) printState(state session.State) {
	resp := state.Response(time.Now())
	switch state.Kind {
	case session.Idle:
		fmt.Fprintln(a.out, "Not checked in today")
	case session.CheckedIn:
		fmt.Fprintf(a.out, "Checked in at %s, elapsed %s\n", state.Since.Local().Format("15:04"), resp.Elapsed)
	case session.CheckedOut:
		fmt.Fprintf(a.out, "Checked out, worked %s (since %s)\n", *resp.WorkedTime, state.Since.Local().Format("15:04"))
	}
}
