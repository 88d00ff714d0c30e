package report

import "errors"

var (
	ErrReportNotFound          = errors.New("report not found")
	ErrReportAlreadyReviewed   = errors.New("report has already been approved or rejected")
	ErrInvalidStatusTransition = errors.New("report status transition is not allowed")
	ErrNotCheckedOut           = errors.New("check out for the day before submitting a report")
	ErrNotReportOwner          = errors.New("report belongs to another employee")
)
