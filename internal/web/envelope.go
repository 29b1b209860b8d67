package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/satchart/internal/domain"
)

const maxBodyBytes = 1 << 20

var errNotFound = errors.New("not found")

func (s *Server) respond(w http.ResponseWriter, r *http.Request, data any) {
	s.writeEnvelope(w, r, http.StatusOK, domain.Envelope[any]{
		Data:     data,
		Error:    domain.EnvelopeError{Code: domain.CodeOK, Status: "ok"},
		Endpoint: r.URL.Path,
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, domain.CodeInternal
	message := "internal error"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, message = http.StatusBadRequest, domain.CodeBadRequest, err.Error()
	case errors.Is(err, errNotFound):
		status, code, message = http.StatusNotFound, domain.CodeNotFound, err.Error()
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	s.writeEnvelope(w, r, status, domain.Envelope[any]{
		Error:    domain.EnvelopeError{Code: code, Status: message},
		Endpoint: r.URL.Path,
	})
}

func (s *Server) writeEnvelope(w http.ResponseWriter, r *http.Request, status int, env domain.Envelope[any]) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Warn("write response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "read request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrapf(domain.ErrInvalidInput, "malformed request body: %v", err)
	}
	return nil
}
