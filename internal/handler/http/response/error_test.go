package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/invitation"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/workorder"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{auth.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{invitation.ErrInvitationNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("failed to get invitation: %w", invitation.ErrInvitationNotFound), http.StatusNotFound, "NOT_FOUND"},
		{invitation.ErrInvitationExists, http.StatusConflict, "CONFLICT"},
		{invitation.ErrCannotResendAccepted, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{workorder.ErrInvalidTransition, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{invitation.ErrTooManyAttempts, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{notification.ErrQueueFull, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHandleError_Validation(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("email", "email is required")

	w := httptest.NewRecorder()
	HandleError(w, errs)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Equal(t, map[string]string{"email": "email is required"}, resp.Errors)
}

func TestHandleError_UnexpectedHidesMessageOutsideDebug(t *testing.T) {
	t.Cleanup(func() { SetDebug(false) })
	boom := errors.New("pq: connection refused on 10.0.0.3")

	w := httptest.NewRecorder()
	HandleError(w, boom)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")

	SetDebug(true)
	w = httptest.NewRecorder()
	HandleError(w, boom)
	assert.Contains(t, w.Body.String(), "10.0.0.3")
}
