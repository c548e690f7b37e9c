package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/notification"
	"github.com/haulpoint/haulpoint-backend-go/internal/handler/http/response"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/jwt"
)

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	// Notifications
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)

	// Admin
	Send(w http.ResponseWriter, r *http.Request)

	// SSE
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.Service
	jwtService   jwt.Service
	keepalive    time.Duration
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.Service, jwtService jwt.Service) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
		jwtService:   jwtService,
		keepalive:    30 * time.Second,
	}
}

func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req, err := notification.ParseListRequest(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.notifService.List(r.Context(), p, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, page)
}

func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.notifService.UnreadCount(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.notifService.MarkRead(r.Context(), p, id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	resp, err := h.notifService.MarkAllRead(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "All notifications marked as read", resp)
}

func (h *notificationHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req notification.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.notifService.Send(r.Context(), p, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Notification queued", nil)
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(notification.RecipientFor(p).Key())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// streamKey resolves the subscriber from ?token= (EventSource cannot send headers),
// falling back to the principal set by session middleware.
func (h *notificationHandlerImpl) streamKey(r *http.Request) (string, bool) {
	if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
		key, err := h.jwtService.ValidateSSEToken(tokenStr)
		if err != nil {
			return "", false
		}
		return key, true
	}
	if p, ok := principalFromRequest(r); ok {
		return notification.RecipientFor(p).Key(), true
	}
	return "", false
}

// Stream handles SSE connection for real-time notifications
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	key, ok := h.streamKey(r)
	if !ok {
		response.Unauthorized(w, "Invalid or missing stream token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.notifService.Subscribe(r.Context(), key)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case n, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
