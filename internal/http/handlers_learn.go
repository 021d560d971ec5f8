package http

import (
	"errors"
	"html/template"
	"net/http"

	"finovo/internal/content"
	"finovo/internal/log"
)

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", name, log.FieldError, err)
	}
}

func (s *Server) handleLearnIndex(w http.ResponseWriter, r *http.Request) {
	topics, err := content.Topics()
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.render(w, r, "learn_index.html", struct{ Topics []content.Topic }{topics})
}

func (s *Server) handleLearnTopic(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("topic")
	body, err := content.HTML(slug)
	if errors.Is(err, content.ErrTopicNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.render(w, r, "learn_topic.html", struct {
		Slug string
		Body template.HTML
	}{slug, body})
}
