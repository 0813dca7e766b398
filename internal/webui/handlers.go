// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package webui

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ManuGH/vidgrab/internal/fsutil"
	"github.com/ManuGH/vidgrab/internal/log"
	"github.com/ManuGH/vidgrab/internal/render"
)

// handleIndex renders the page without blocking on the backend. The
// platforms list loads in the background; a slow backend leaves it marked
// as loading until a later visit.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	if done := s.loadPlatforms(sess); done != nil {
		t := time.NewTimer(platformsWait)
		select {
		case <-done:
		case <-t.C:
		case <-r.Context().Done():
		}
		t.Stop()
	}
	s.writePage(w, r, sess)
}

// loadPlatforms starts the session's platforms load once and returns a
// channel closed when it has been shown. It returns nil after Close.
func (s *Server) loadPlatforms(sess *session) <-chan struct{} {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.platformsDone != nil {
		return sess.platformsDone
	}
	if s.bgCtx.Err() != nil {
		return nil
	}

	done := make(chan struct{})
	sess.platformsDone = done
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer close(done)
		ctx, cancel := context.WithTimeout(s.bgCtx, platformsLoadTimeout)
		defer cancel()
		sess.controller.LoadPlatforms(ctx)
	}()
	return done
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.runPanel(w, r, func(ctx context.Context, sess *session) (render.Panel, bool) {
		return sess.controller.GetInfo(ctx)
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	s.runPanel(w, r, func(ctx context.Context, sess *session) (render.Panel, bool) {
		return sess.controller.GetFormats(ctx)
	})
}

// runPanel applies the submitted form, runs op and answers with the page.
// A superseded operation redirects to the page, which shows the newer result.
func (s *Server) runPanel(w http.ResponseWriter, r *http.Request, op func(context.Context, *session) (render.Panel, bool)) {
	sess := s.sessions.get(w, r)
	if !s.applyForm(w, r, sess) {
		return
	}
	if _, shown := op(r.Context(), sess); !shown {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.writePage(w, r, sess)
}

// handleDownload streams the payload back as an attachment straight from
// memory. Failures render the page with the error panel.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	if !s.applyForm(w, r, sess) {
		return
	}
	h := &handoff{}
	p, shown := sess.controller.Download(withHandoff(r.Context(), h))
	if !shown {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if p.IsError() || !h.ok {
		s.writePage(w, r, sess)
		return
	}

	name := fsutil.SanitizeFilename(h.res.Filename)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if h.res.ContentType != "" {
		w.Header().Set("Content-Type", h.res.ContentType)
	}
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(h.res.Data))
}

// handleAudioOnly keeps the typed URL and switches audio-only mode to the
// posted "on" value.
func (s *Server) handleAudioOnly(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	if !s.applyForm(w, r, sess) {
		return
	}
	switch strings.ToLower(r.PostFormValue("on")) {
	case "1", "true", "on":
		sess.controller.ToggleAudioOnly(true)
	default:
		sess.controller.ToggleAudioOnly(false)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyForm copies the posted fields into the session's form. The audio-only
// box is applied first so a locked selector ignores the posted format.
func (s *Server) applyForm(w http.ResponseWriter, r *http.Request, sess *session) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	c := sess.controller
	c.SetURL(r.PostFormValue("url"))
	audioOnly := r.PostFormValue("audio_only") == "on"
	if audioOnly != c.Form().AudioOnly {
		c.ToggleAudioOnly(audioOnly)
	}
	c.SetFormat(r.PostFormValue("format"))
	return true
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, sess *session) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := writePage(w, sess.controller.Form(), sess.display.snapshot(), s.cfg.Version); err != nil {
		l := log.WithContext(r.Context(), s.logger)
		l.Error().Err(err).Msg("render page")
	}
}
