package servicerequest

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest_Validate(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tomorrow := "2026-03-02"
	req := CreateRequest{Type: "extra_pickup", Description: "Two extra bags", PreferredDate: &tomorrow}
	require.NoError(t, req.Validate(today))

	yesterday := "2026-02-28"
	req = CreateRequest{Type: "teleport", PreferredDate: &yesterday}
	err := req.Validate(today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type is not a known service request type")
	assert.Contains(t, err.Error(), "description is required")
	assert.Contains(t, err.Error(), "preferred_date must not be in the past")
}

func TestCanCancel(t *testing.T) {
	assert.True(t, (&ServiceRequest{Status: StatusPending}).CanCancel())
	assert.False(t, (&ServiceRequest{Status: StatusScheduled}).CanCancel())
	assert.Equal(t, "Missed pickup", TypeMissedPickup.Label())
	assert.True(t, StatusInProgress.IsOpen())
}

func TestParseListRequest(t *testing.T) {
	req, err := ParseListRequest(url.Values{"type": {"billing"}, "sort_by": {"status"}})
	require.NoError(t, err)
	assert.Equal(t, TypeBilling, *req.Filter.Type)
	assert.Equal(t, "status DESC", req.Page.OrderBy())

	_, err = ParseListRequest(url.Values{"status": {"lost"}})
	assert.Error(t, err)
}
