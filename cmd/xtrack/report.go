package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/client/credstore"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "File and list daily work reports",
	}
	cmd.AddCommand(newReportSubmitCmd(a), newReportListCmd(a))
	return cmd
}

func newReportSubmitCmd(a *app) *cobra.Command {
	var (
		form   credstore.Draft
		resume bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a report entry for a checked-out day",
		Long: "Submit a report entry. The form is kept as a draft until the server " +
			"accepts it; --resume fills empty fields from that draft.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}

			if resume {
				if saved, ok := a.store.Draft(); ok {
					form = mergeDraft(saved, form)
				}
			}
			if form.Date == "" {
				form.Date = time.Now().Format("2006-01-02")
			}

			if err := a.store.SaveDraft(form); err != nil {
				return err
			}

			entry, err := a.client.SubmitReport(cmd.Context(), draftRequest(form))
			if err != nil {
				a.printDraft(form)
				return a.apiError(err)
			}

			if err := a.store.ClearDraft(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Report %s submitted for %s (%s)\n", entry.ID, entry.Date, entry.TimeSpent)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Date, "date", "", "report date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&form.TaskDescription, "task", "t", "", "what was worked on")
	cmd.Flags().StringVarP(&form.TimeSpent, "time", "d", "", `time spent, e.g. "2h 30m" or "1.5"`)
	cmd.Flags().StringVar(&form.RelatedAdmin, "admin", "", "related administrator")
	cmd.Flags().StringVar(&form.Blockers, "blockers", "", "blockers, if any")
	cmd.Flags().BoolVar(&resume, "resume", false, "continue the last unsent draft")
	return cmd
}

// mergeDraft fills the empty fields of form from saved.
func mergeDraft(saved, form credstore.Draft) credstore.Draft {
	pick := func(flag, stored string) string {
		if flag != "" {
			return flag
		}
		return stored
	}
	return credstore.Draft{
		Date:            pick(form.Date, saved.Date),
		TaskDescription: pick(form.TaskDescription, saved.TaskDescription),
		TimeSpent:       pick(form.TimeSpent, saved.TimeSpent),
		RelatedAdmin:    pick(form.RelatedAdmin, saved.RelatedAdmin),
		Blockers:        pick(form.Blockers, saved.Blockers),
	}
}

func draftRequest(d credstore.Draft) report.CreateReportRequest {
	req := report.CreateReportRequest{
		Date:            d.Date,
		TaskDescription: d.TaskDescription,
	}
	if d.TimeSpent != "" {
		req.TimeSpent = &d.TimeSpent
	}
	if d.RelatedAdmin != "" {
		req.RelatedAdmin = &d.RelatedAdmin
	}
	if d.Blockers != "" {
		req.Blockers = &d.Blockers
	}
	return req
}

func (a *app) printDraft(d credstore.Draft) {
	fmt.Fprintln(a.out, "Report not submitted. Draft kept (use --resume):")
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  date\t%s\n", d.Date)
	fmt.Fprintf(w, "  task\t%s\n", d.TaskDescription)
	fmt.Fprintf(w, "  time\t%s\n", d.TimeSpent)
	fmt.Fprintf(w, "  admin\t%s\n", d.RelatedAdmin)
	fmt.Fprintf(w, "  blockers\t%s\n", d.Blockers)
	w.Flush()
}

func newReportListCmd(a *app) *cobra.Command {
	var daily bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your report entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if daily {
				days, err := a.client.MyDailyReports(cmd.Context())
				if err != nil {
					return a.apiError(err)
				}
				a.printDaily(days)
				return nil
			}

			entries, err := a.client.MyReports(cmd.Context())
			if err != nil {
				return a.apiError(err)
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTIME\tSTATUS\tTASK")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Date, e.TimeSpent, e.Status, e.TaskDescription)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&daily, "daily", false, "group entries per day against worked time")
	return cmd
}

func (a *app) printDaily(days []report.DailySummaryResponse) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tENTRIES\tREPORTED\tWORKED\tUNREPORTED")
	for _, d := range days {
		worked, unreported := "-", "-"
		if d.AttendanceMinutes != nil {
			worked = fmt.Sprintf("%dm", *d.AttendanceMinutes)
		}
		if d.UnreportedMinutes != nil {
			unreported = fmt.Sprintf("%dm", *d.UnreportedMinutes)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", d.Date, len(d.Entries), d.TotalTime, worked, unreported)
	}
	w.Flush()
}
