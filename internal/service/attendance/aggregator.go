package attendance

import (
	"math"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
)

// Summary counts records by attendance outcome.
type Summary struct {
	Present int
	Late    int
	Absent  int
}

// Summarize counts on-time and half-day records as present.
func Summarize(records []attendance.Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case attendance.StatusOnTime, attendance.StatusHalfDay:
			s.Present++
		case attendance.StatusLate:
			s.Late++
		case attendance.StatusAbsent:
			s.Absent++
		}
	}
	return s
}

// Rate is present/(present+late) as a rounded percentage, 0 without data.
// Absences are not part of the denominator.
func Rate(s Summary) int {
	denominator := s.Present + s.Late
	if denominator == 0 {
		return 0
	}
	return int(math.Round(float64(s.Present) / float64(denominator) * 100))
}

func (s Summary) Response() attendance.SummaryResponse {
	return attendance.SummaryResponse{
		Present: s.Present,
		Late:    s.Late,
		Absent:  s.Absent,
		Rate:    Rate(s),
	}
}
