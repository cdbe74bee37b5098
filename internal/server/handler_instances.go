package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/goshop/internal/loader"
	"github.com/me/goshop/pkg/model"
)

func (s *Server) handleCreateInstance(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	body, err := readBody(r)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("read body: %v", err))
		return
	}

	// The request body is the instance document itself.
	instance, err := loader.DecodeJSON(body)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid instance document: %v", err))
		return
	}

	document, err := loader.EncodeJSON(instance)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}

	stored := &model.StoredInstance{
		ID:          "inst_" + uuid.New().String()[:8],
		Name:        instance.Name,
		NumJobs:     instance.NumJobs(),
		NumMachines: instance.NumMachines(),
		NumOps:      instance.NumOperations(),
		Document:    string(document),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateInstance(r.Context(), stored); err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}

	s.logger.Info("instance created", "id", stored.ID, "name", stored.Name,
		"jobs", stored.NumJobs, "machines", stored.NumMachines)
	respondCreated(w, reqID, stored)
}

func (s *Server) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	stored, err := s.store.GetInstance(r.Context(), id)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}
	if stored == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("instance", id))
		return
	}
	respondOK(w, reqID, stored)
}

func (s *Server) handleListInstances(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	opts := listOptionsFromQuery(r)

	list, total, err := s.store.ListInstances(r.Context(), opts)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}
	respondList(w, reqID, list, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+len(list) < total,
	})
}

func (s *Server) handleDeleteInstance(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := s.store.DeleteInstance(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("instance", id))
		return
	}
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err))
		return
	}
	respondOK(w, reqID, map[string]string{"deleted": id})
}

func readBody(r *http.Request) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func listOptionsFromQuery(r *http.Request) model.ListOptions {
	opts := model.DefaultListOptions()
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}
	opts.Clamp()
	return opts
}
