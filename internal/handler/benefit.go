package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkordes/benefits-api/internal/domain"
	"github.com/pkordes/benefits-api/internal/dto"
)

// ListBenefits handles GET /benefits.
// ?page= and ?limit= are optional; both must be present and non-zero for the
// response to be paginated.
func (s *Server) ListBenefits(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, []string{err.Error()})
		return
	}

	page, err := s.benefits.FindAll(r.Context(), params.Page, params.Limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetBenefit handles GET /benefits/{id}.
func (s *Server) GetBenefit(w http.ResponseWriter, r *http.Request) {
	id, err := bindID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, []string{err.Error()})
		return
	}

	benefit, err := s.benefits.FindOne(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, benefit)
}

// CreateBenefit handles POST /benefits.
func (s *Server) CreateBenefit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBenefitRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	created, err := s.benefits.Create(r.Context(), req.Name, req.Description, req.IsActive)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateBenefit handles PUT /benefits/{id}.
func (s *Server) UpdateBenefit(w http.ResponseWriter, r *http.Request) {
	id, err := bindID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, []string{err.Error()})
		return
	}

	var req dto.UpdateBenefitRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := s.benefits.Update(r.Context(), id, req.Patch())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ActivateBenefit handles PUT /benefits/{id}/activate.
func (s *Server) ActivateBenefit(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.benefits.Activate)
}

// DeactivateBenefit handles PUT /benefits/{id}/deactivate.
func (s *Server) DeactivateBenefit(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.benefits.Deactivate)
}

// DeleteBenefit handles DELETE /benefits/{id}.
func (s *Server) DeleteBenefit(w http.ResponseWriter, r *http.Request) {
	id, err := bindID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, []string{err.Error()})
		return
	}

	if err := s.benefits.Remove(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ----------------------------------------------------------------

// toggle runs an activate/deactivate style operation against the {id} path param.
func (s *Server) toggle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) (domain.Benefit, error)) {
	id, err := bindID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, []string{err.Error()})
		return
	}

	benefit, err := op(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, benefit)
}

// decodeAndValidate decodes the JSON body into dst and runs dto.Validate.
// An empty body decodes to the zero value; anything after the first JSON
// value is rejected. On failure it writes the error response and returns false.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		err = ensureEOF(dec)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, []string{decodeMessage(err)})
		return false
	}

	if err := dto.Validate(dst); err != nil {
		s.writeServiceError(w, r, err)
		return false
	}
	return true
}

var errTrailingData = errors.New("request body must contain a single JSON value")

// ensureEOF returns errTrailingData when dec holds anything past the value
// already decoded. A body-size error from the extra read is passed through.
func ensureEOF(dec *json.Decoder) error {
	err := dec.Decode(&json.RawMessage{})
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &maxErr):
		return err
	default:
		return errTrailingData
	}
}

// decodeMessage turns a JSON decoding error into a client-facing message.
func decodeMessage(err error) string {
	if errors.Is(err, errTrailingData) {
		return err.Error()
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String())
	}
	return "request body must be valid JSON"
}
