package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/calorietracker/api/apirecordsv1"
	"github.com/fulldump/calorietracker/records"
	"github.com/fulldump/calorietracker/service"
	"github.com/fulldump/calorietracker/session"
)

type PrettyError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
}

func (p PrettyError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"error": struct {
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			p.Message,
			p.Description,
		},
	})
}

func (p PrettyError) MarshalTo(w io.Writer) error {
	return json.NewEncoder(w).Encode(p)
}

func InterceptorUnavailable(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := s.Status().Status
			if status != session.StatusOperating {
				box.SetError(ctx, fmt.Errorf("%w: %s", service.ErrorUnavailable, status))
				return
			}
			next(ctx)
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error, description string) {
	w.WriteHeader(status)
	PrettyError{
		Message:     err.Error(),
		Description: description,
	}.MarshalTo(w)
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)
		r := box.GetRequest(ctx)

		switch {
		case errors.Is(err, ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, err, "user is not authenticated")
			return
		case errors.Is(err, box.ErrResourceNotFound):
			writeError(w, http.StatusNotFound, err, fmt.Sprintf("resource '%s' not found", r.URL.String()))
			return
		case errors.Is(err, box.ErrMethodNotAllowed):
			writeError(w, http.StatusMethodNotAllowed, err, fmt.Sprintf("method '%s' not allowed", r.Method))
			return
		case errors.Is(err, service.ErrorRecordNotFound):
			writeError(w, http.StatusNotFound, err, fmt.Sprintf("resource '%s' not found", r.URL.String()))
			return
		case errors.Is(err, service.ErrorNoSelection):
			writeError(w, http.StatusNotFound, err, "select a record first")
			return
		case errors.Is(err, records.ErrInvalidCalories):
			writeError(w, http.StatusBadRequest, err, "Invalid calories")
			return
		case errors.Is(err, apirecordsv1.ErrInvalidRecordId):
			writeError(w, http.StatusBadRequest, err, "Record id must be a non-negative integer")
			return
		case errors.Is(err, service.ErrorUnavailable):
			writeError(w, http.StatusServiceUnavailable, err, "The session is not operating, retry later")
			return
		}

		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) || errors.As(err, &typeError) {
			writeError(w, http.StatusBadRequest, err, "Malformed JSON")
			return
		}

		writeError(w, http.StatusInternalServerError, err, "Unexpected error")
	}
}
