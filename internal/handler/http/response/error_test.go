package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/timeunit"
	"github.com/cmlabs-hris/xtrack-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "date", Message: "date is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"duration", fmt.Errorf("parse: %w", timeunit.ErrInvalidDuration), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrapped token", fmt.Errorf("claims: %w", auth.ErrInvalidToken), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin", user.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{"owner", report.ErrNotReportOwner, http.StatusForbidden, "FORBIDDEN"},
		{"checked in", attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{"checked out", attendance.ErrAlreadyCheckedOut, http.StatusConflict, "CONFLICT"},
		{"not checked in", attendance.ErrNotCheckedIn, http.StatusConflict, "CONFLICT"},
		{"report reviewed", report.ErrReportAlreadyReviewed, http.StatusConflict, "CONFLICT"},
		{"transition", fmt.Errorf("approved -> submitted: %w", report.ErrInvalidStatusTransition), http.StatusConflict, "CONFLICT"},
		{"report before checkout", report.ErrNotCheckedOut, http.StatusConflict, "CONFLICT"},
		{"leave processed", leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{"username", user.ErrUsernameExists, http.StatusConflict, "CONFLICT"},
		{"holiday date", holiday.ErrHolidayDateExists, http.StatusConflict, "CONFLICT"},
		{"report missing", report.ErrReportNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"leave missing", leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"holiday missing", holiday.ErrHolidayNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"user missing", user.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"calendar status", calendar.ErrUnknownEventStatus, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, validator.ValidationErrors{
		{Field: "task_description", Message: "task_description is required"},
		{Field: "minutes_spent", Message: "minutes_spent must not be negative"},
	})

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{
		"task_description": "task_description is required",
		"minutes_spent":    "minutes_spent must not be negative",
	}, resp.Error.Details)
}
