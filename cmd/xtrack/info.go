package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Attendance totals and rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			s, err := a.client.Summary(cmd.Context(), month)
			if err != nil {
				return a.apiError(err)
			}
			fmt.Fprintf(a.out, "Present %d  Late %d  Absent %d  Rate %d%%\n", s.Present, s.Late, s.Absent, s.Rate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "limit to YYYY-MM")
	return cmd
}

func newCalendarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Holidays and leave as calendar events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			events, err := a.client.CalendarEvents(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "START\tEND\tKIND\tTAG\tTITLE")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Start, e.End, e.Kind, e.ColorTag, e.Title)
			}
			return w.Flush()
		},
	}
}
