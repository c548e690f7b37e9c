package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginated_Meta(t *testing.T) {
	page := pagination.NewPage([]string{"a", "b"}, 17, pagination.Params{Page: 2, PerPage: 15})

	w := httptest.NewRecorder()
	Paginated(w, page)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Data    []string `json:"data"`
		Meta    Meta     `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "OK", resp.Message)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	assert.Equal(t, Meta{Page: 2, Limit: 15, TotalItems: 17, TotalPages: 2}, resp.Meta)
}

func TestPaginated_EmptyPageIsArray(t *testing.T) {
	page := pagination.NewPage[int](nil, 0, pagination.Params{Page: 1, PerPage: 15})

	w := httptest.NewRecorder()
	Paginated(w, page)

	assert.Contains(t, w.Body.String(), `"data":[]`)
	assert.Contains(t, w.Body.String(), `"total_pages":1`)
}
