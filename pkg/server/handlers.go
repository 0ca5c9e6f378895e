package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/httputil"
	meshio "github.com/matzehuels/meshview/pkg/io"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
	"github.com/matzehuels/meshview/pkg/session"
)

// CreateResponse answers a session creation.
type CreateResponse struct {
	ID  string `json:"id"`
	SVG string `json:"svg"`
}

// ClipPathRequest sets or clears the clip polygon.
type ClipPathRequest struct {
	Points string `json:"points"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sys, err := meshio.ReadSystem(r.Body, meshio.FormatJSON)
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	doc, svg, err := s.runner.Compose(ctx, sys)
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}

	sess := session.FromDocument(doc, s.settings.SessionTTL)
	if err := s.store.Set(ctx, sess); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "rows", sys.Rows, "columns", sys.Columns)
	httputil.WriteJSON(w, http.StatusCreated, CreateResponse{ID: sess.ID, SVG: string(svg)})
}

// lookup resolves the {id} URL parameter, answering 404 itself on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	if err := session.ParseID(id); err != nil {
		httputil.WriteError(w, s.logger, err)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	httputil.WriteSVG(w, sess.Render())
}

func (s *Server) configure(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	cfg, err := meshio.ReadConfiguration(r.Body, meshio.FormatJSON)
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}

	ctx := r.Context()
	res, err := sess.UpdateWith(cfg, func(doc *mesh.Document, cfg *attributes.Configuration) (*mesh.UpdateResult, error) {
		return s.runner.Update(ctx, doc, cfg)
	})
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	if err := s.store.Set(ctx, sess); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) setClipPath(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req ClipPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode clip path"))
		return
	}
	if err := sess.SetClipPath(req.Points); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := session.ParseID(id); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
