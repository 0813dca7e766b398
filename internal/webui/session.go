// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package webui

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/vidgrab/internal/render"
	"github.com/ManuGH/vidgrab/internal/view"
)

const (
	sessionCookie = "vidgrab_session"
	sessionTTL    = 30 * time.Minute
	maxSessions   = 1024
)

// pageDisplay records what the controller last showed so the page can be
// rendered from it.
type pageDisplay struct {
	mu        sync.Mutex
	loading   bool
	panel     *render.Panel
	platforms *render.PlatformsView
}

func (d *pageDisplay) ShowLoading() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = true
}

func (d *pageDisplay) Show(p render.Panel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	d.panel = &p
}

func (d *pageDisplay) ShowPlatforms(v render.PlatformsView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.platforms = &v
}

type displayState struct {
	loading   bool
	panel     *render.Panel
	platforms *render.PlatformsView
}

func (d *pageDisplay) snapshot() displayState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return displayState{loading: d.loading, panel: d.panel, platforms: d.platforms}
}

// session is one browser's form and results area.
type session struct {
	id         string
	controller *view.Controller
	display    *pageDisplay
	lastSeen   time.Time

	mu sync.Mutex
	// platformsDone is closed once the platforms list (or its placeholder)
	// is shown; nil until the first load starts.
	platformsDone chan struct{}
}

// sessionStore keys sessions by cookie. Idle sessions expire after
// sessionTTL; when full, the least recently used session is evicted.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	newCtl   func(view.Display) *view.Controller
	now      func() time.Time
	secure   bool
}

func newSessionStore(newCtl func(view.Display) *view.Controller) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		newCtl:   newCtl,
		now:      time.Now,
	}
}

// get returns the caller's session, creating one (and setting the cookie)
// when the request carries none or an expired one.
func (s *sessionStore) get(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok && now.Sub(sess.lastSeen) < sessionTTL {
			sess.lastSeen = now
			return sess
		}
	}

	s.sweep(now)
	d := &pageDisplay{}
	sess := &session{
		id:         uuid.NewString(),
		controller: s.newCtl(d),
		display:    d,
		lastSeen:   now,
	}
	s.sessions[sess.id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// sweep must be called with mu held.
func (s *sessionStore) sweep(now time.Time) {
	var oldest *session
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) >= sessionTTL {
			delete(s.sessions, id)
			continue
		}
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	if len(s.sessions) >= maxSessions && oldest != nil {
		delete(s.sessions, oldest.id)
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
