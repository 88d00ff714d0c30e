package report

import (
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/civil"
)

// GroupByDay partitions entries by calendar date. Days appear in the order
// their first entry appears and entries keep their input order. The
// summaries reference the given entries, so later edits show up in
// TotalMinutes without regrouping.
func GroupByDay(entries []*report.Entry) []report.DailySummary {
	index := make(map[civil.Date]int)
	var days []report.DailySummary

	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			i = len(days)
			index[e.Date] = i
			days = append(days, report.DailySummary{Date: e.Date})
		}
		days[i].Entries = append(days[i].Entries, e)
	}
	return days
}

// Reconcile attaches each day's closed attendance total so reported and
// attended time can be compared.
func Reconcile(days []report.DailySummary, records []attendance.Record) {
	worked := make(map[civil.Date]int, len(records))
	for _, r := range records {
		if r.TotalMinutes != nil {
			worked[r.Date] = *r.TotalMinutes
		}
	}

	for i := range days {
		if total, ok := worked[days[i].Date]; ok {
			days[i].AttendanceMinutes = &total
		}
	}
}
