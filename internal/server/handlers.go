package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BobbyForshell/time-span-estimator/internal/catalog"
	"github.com/BobbyForshell/time-span-estimator/internal/export"
	"github.com/BobbyForshell/time-span-estimator/internal/models"
	"github.com/BobbyForshell/time-span-estimator/internal/scoring"
	"github.com/BobbyForshell/time-span-estimator/internal/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": s.texts.Languages(),
		"default":   s.cfg.DefaultLanguage,
	})
}

type purposeView struct {
	Code  models.Purpose `json:"code"`
	Label string         `json:"label"`
}

func (s *Server) handlePurposes(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)
	purposes := make([]purposeView, 0, 3)
	for _, p := range models.Purposes() {
		purposes = append(purposes, purposeView{
			Code:  p,
			Label: s.texts.Resolve(p.LabelKey(), lang),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"purposes": purposes})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"language":       lang,
		"totalQuestions": catalog.Count(),
		"questions":      catalog.Localized(lang, s.texts.Resolve),
	})
}

// handleScore serves stateless clients that hold their own wizard
// state and submit the full answer list at once.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}
	if !req.Purpose.Valid() {
		writeError(w, http.StatusBadRequest, "invalid purpose", "purpose must be one of self-reflection, recruitment, leadership")
		return
	}
	lang := req.Language
	if lang == "" || !s.texts.Supported(lang) {
		lang = s.cfg.DefaultLanguage
	}

	result, err := scoring.Score(req.Answers, req.Purpose, s.texts, lang)
	if err != nil {
		s.writeScoringError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type sessionView struct {
	models.Session
	CurrentQuestion int  `json:"currentQuestion"`
	TotalQuestions  int  `json:"totalQuestions"`
	Complete        bool `json:"complete"`
}

func viewOf(sess models.Session) sessionView {
	return sessionView{
		Session:         sess,
		CurrentQuestion: sess.CurrentQuestion(),
		TotalQuestions:  catalog.Count(),
		Complete:        sess.Complete(catalog.Count()),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Purpose  models.Purpose `json:"purpose"`
		Language string         `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}
	if !payload.Purpose.Valid() {
		writeError(w, http.StatusBadRequest, "invalid purpose", "purpose must be one of self-reflection, recruitment, leadership")
		return
	}
	lang := payload.Language
	if lang == "" || !s.texts.Supported(lang) {
		lang = s.cfg.DefaultLanguage
	}

	sess, err := s.sessions.Create(lang, payload.Purpose)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot create session", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found", "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OptionIndex int `json:"optionIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad request", "invalid JSON body")
		return
	}

	sess, err := s.sessions.Answer(chi.URLParam(r, "id"), payload.OptionIndex)
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "unknown session")
		return
	case errors.Is(err, session.ErrComplete):
		writeError(w, http.StatusConflict, "already complete", "every question has been answered")
		return
	case errors.Is(err, session.ErrOptionIndex):
		writeError(w, http.StatusBadRequest, "invalid option", err.Error())
		return
	case err != nil:
		slog.Error("record answer", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "cannot record answer")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Restart(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found", "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found", "unknown session")
		return
	}
	if !sess.Complete(catalog.Count()) {
		writeError(w, http.StatusConflict, "incomplete", "answer the remaining questions first")
		return
	}

	result, err := scoring.Score(sess.Answers, sess.Purpose, s.texts, sess.Language)
	if err != nil {
		s.writeScoringError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found", "unknown session")
		return
	}
	if !sess.Complete(catalog.Count()) {
		writeError(w, http.StatusConflict, "incomplete", "answer the remaining questions first")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	level := scoring.AverageLevel(sess.Answers)
	now := time.Now()

	var (
		body        []byte
		contentType string
	)
	switch format {
	case "csv":
		rows, err := export.BuildTabular(sess.Answers, level, sess.Purpose, s.texts, sess.Language, now)
		if err == nil {
			body, err = export.EncodeCSV(rows)
		}
		if err != nil {
			s.writeScoringError(w, err)
			return
		}
		contentType = "text/csv; charset=utf-8"
	case "json":
		doc, err := export.BuildStructured(sess.Answers, level, sess.Purpose, s.texts, sess.Language, now)
		if err == nil {
			body, err = export.EncodeJSON(doc)
		}
		if err != nil {
			s.writeScoringError(w, err)
			return
		}
		contentType = "application/json"
	case "summary":
		text, err := export.BuildSummary(sess.Answers, level, sess.Purpose, s.texts, sess.Language, now)
		if err != nil {
			s.writeScoringError(w, err)
			return
		}
		body = []byte(text)
		contentType = "text/markdown; charset=utf-8"
	default:
		writeError(w, http.StatusBadRequest, "invalid format", "format must be csv, json, or summary")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(format, now)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// writeScoringError maps pipeline errors onto HTTP statuses. Contract
// violations are the caller's to fix; anything else is ours.
func (s *Server) writeScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoring.ErrAnswerCount), errors.Is(err, scoring.ErrInvalidLevel):
		writeError(w, http.StatusBadRequest, "invalid answers", err.Error())
	default:
		slog.Error("score assessment", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "cannot score assessment")
	}
}
