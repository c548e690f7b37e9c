package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/haulpoint/haulpoint-backend-go/internal/domain/auth"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

// principal returns the caller set by the auth middleware, answering 401 when absent.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrUnauthenticated)
		return auth.Principal{}, false
	}
	return p, true
}

func principalFromRequest(r *http.Request) (auth.Principal, bool) {
	return auth.PrincipalFromContext(r.Context())
}

// idParam reads the {id} route parameter. Malformed ids cannot match a row, so they answer 404.
func idParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.NotFound(w, "Resource not found")
		return "", false
	}
	return id, true
}
