package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/msomdec/todo-list/internal/view"
)

const flashCookieName = "flash"

// Flashes stores one-shot notices in a signed cookie so they survive the
// redirect that follows every form post.
type Flashes struct {
	store *sessions.CookieStore
}

// NewFlashes creates a cookie-backed flash store signed with secret.
func NewFlashes(secret string, secure bool) *Flashes {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store}
}

// Add queues a message of the given kind (view.FlashOK or view.FlashError).
// It must be called before anything is written to the response body.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, kind, message string) {
	// A cookie that fails to decode yields a fresh session, which is fine here.
	session, _ := f.store.Get(r, flashCookieName)
	session.AddFlash(message, kind)
	if err := session.Save(r, w); err != nil {
		slog.Error("save flash", "error", err)
	}
}

// Pop returns and clears the pending messages, errors first.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []view.Flash {
	session, err := f.store.Get(r, flashCookieName)
	if err != nil {
		return nil
	}

	var out []view.Flash
	for _, kind := range []string{view.FlashError, view.FlashOK} {
		for _, v := range session.Flashes(kind) {
			if msg, ok := v.(string); ok {
				out = append(out, view.Flash{Kind: kind, Message: msg})
			}
		}
	}

	if len(out) > 0 {
		if err := session.Save(r, w); err != nil {
			slog.Error("clear flashes", "error", err)
		}
	}
	return out
}
