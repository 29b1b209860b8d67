package web

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/satchart/internal/domain"
)

type addressRequest struct {
	Address string `json:"address"`
}

type deltaRequest struct {
	Address   string `json:"address"`
	Timestamp int64  `json:"timestamp"`
	Satoshis  int64  `json:"satoshis"`
}

func (s *Server) handleBalanceHistory(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	history, err := s.history.Load(r.Context(), req.Address)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, r, history)
}

func (s *Server) handleAddDelta(w http.ResponseWriter, r *http.Request) {
	var req deltaRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		s.fail(w, r, errors.Wrap(domain.ErrInvalidInput, "address is required"))
		return
	}

	delta := domain.AddressDelta{Address: address, Timestamp: req.Timestamp, Satoshis: req.Satoshis}
	idx, err := s.store.Save(delta)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	record := domain.DeltaRecord{Index: idx, Delta: delta}
	s.broadcaster.Publish(record)
	s.logger.Info("balance delta stored",
		zap.String("address", address),
		zap.Uint64("index", idx),
		zap.Int64("satoshis", req.Satoshis))
	s.respond(w, r, record)
}
