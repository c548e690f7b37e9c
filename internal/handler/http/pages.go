package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

//go:embed templates/*.html
var pageFS embed.FS

// FlashCookie carries a one-shot error message to the next page that renders it.
const FlashCookie = "flash_error"

// Pages renders the server-side HTML used by invitees and the customer portal.
type Pages struct {
	templates     *template.Template
	secureCookies bool
}

func NewPages(secureCookies bool) (*Pages, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.UTC().Format("January 2, 2006 15:04 MST") },
	}).ParseFS(pageFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Pages{templates: tmpl, secureCookies: secureCookies}, nil
}

// Render buffers the page so a template error never produces half a response.
func (p *Pages) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Failed to render page", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Title   string
	Message string
}

func (p *Pages) Error(w http.ResponseWriter, status int, title, message string) {
	p.Render(w, status, "error.html", errorPage{Title: title, Message: message})
}

// SetFlash stores message for the next page view.
func (p *Pages) SetFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   p.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash reads and clears the flash message.
func (p *Pages) TakeFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(FlashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
