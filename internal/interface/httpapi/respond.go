package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status code
func statusFor(err error) int {
	var perr *repository.PersistenceError
	switch {
	case errors.As(err, &perr):
		return http.StatusInternalServerError
	case errors.Is(err, dto.ErrBadRequest), errors.Is(err, model.ErrNotCreated):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalid):
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v req=%s", r.Method, r.URL.Path, err, RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, dto.ErrorResponse{Error: err.Error()})
}

// pathID parses the {id} route parameter
func pathID(r *http.Request) (model.TaskID, error) {
	raw := chi.URLParam(r, "id")
	id, err := model.ParseTaskID(raw)
	if err != nil || id.IsZero() {
		return 0, &dto.RequestError{Field: "id", Reason: fmt.Sprintf("%q is not a positive integer", raw)}
	}
	return id, nil
}

// decodeRequest reads the JSON body. An {id} in the path overrides the body's id.
func decodeRequest(w http.ResponseWriter, r *http.Request) (dto.ItemRequest, error) {
	var req dto.ItemRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return dto.ItemRequest{}, &dto.RequestError{Field: "body", Reason: err.Error()}
	}
	if chi.URLParam(r, "id") != "" {
		id, err := pathID(r)
		if err != nil {
			return dto.ItemRequest{}, err
		}
		req.ID = int(id)
	}
	return req.Normalize(), nil
}
