package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/satchart/internal/domain"
)

func (s *Server) handleBalanceStream(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		s.fail(w, r, errors.Wrap(domain.ErrInvalidInput, "address is required"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// subscribe before replaying so nothing stored in between is lost
	live := s.broadcaster.Subscribe(address)
	defer s.broadcaster.Unsubscribe(live)

	lastIndex := s.parseLastEventID(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("last_event_id"))
	stored, err := s.store.DeltasAfter(lastIndex, address)
	if err != nil {
		s.fail(w, r, errors.Wrap(err, "load stored deltas"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)

	send := func(record domain.DeltaRecord) error {
		if record.Index <= lastIndex {
			return nil
		}
		payload, err := json.Marshal(record.Delta)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "id: %d\n", record.Index)
		fmt.Fprintf(w, "event: delta\n")
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		lastIndex = record.Index
		return nil
	}

	for _, record := range stored {
		if err := send(record); err != nil {
			s.logger.Warn("balance stream replay", zap.String("address", address), zap.Error(err))
			return
		}
	}

	// lets the client leave its loading state when the address has no history yet
	if lastIndex == 0 {
		fmt.Fprintf(w, "event: no_data\n")
		fmt.Fprintf(w, "data: {}\n\n")
		flusher.Flush()
	}

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case record, ok := <-live:
			if !ok {
				// the client resumes with Last-Event-ID and gets the rest replayed
				s.logger.Info("balance stream fell behind, closing",
					zap.String("address", address),
					zap.Uint64("last_index", lastIndex))
				return
			}
			if err := send(record); err != nil {
				s.logger.Warn("balance stream push", zap.String("address", address), zap.Error(err))
				return
			}
		}
	}
}

// parseLastEventID extracts an SSE event ID from either the Last-Event-ID header or a query parameter.
// The header is preferred; the query parameter allows manual reconnects to resume from a known index.
func (s *Server) parseLastEventID(headerVal, queryVal string) uint64 {
	idStr := strings.TrimSpace(headerVal)
	if idStr == "" {
		idStr = strings.TrimSpace(queryVal)
	}
	if idStr == "" {
		return 0
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		s.logger.Warn("invalid last event id", zap.String("id", idStr), zap.Error(err))
		return 0
	}
	return id
}
