package web

import (
	"compress/gzip"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/satchart/internal/chart"
	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/internal/services/carousel"
	"github.com/vadiminshakov/satchart/internal/surface/svg"
)

type createChartRequest struct {
	Address  string          `json:"address"`
	Currency domain.Currency `json:"currency,omitempty"`
}

type selectCurrencyRequest struct {
	Currency domain.Currency `json:"currency"`
}

type chartResponse struct {
	ID    string      `json:"id"`
	Frame chart.Frame `json:"frame"`
}

type selectCurrencyResponse struct {
	Moves []carousel.SlotMove `json:"moves"`
	Frame chart.Frame         `json:"frame"`
}

func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	var req createChartRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	history, err := s.history.Load(r.Context(), req.Address)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if len(history.Items) == 0 {
		s.fail(w, r, errors.Wrapf(errNotFound, "no balance history for %s", req.Address))
		return
	}

	opts := append([]chart.Option{}, s.chartOptions...)
	if req.Currency != "" {
		opts = append(opts, chart.WithInitialCurrency(req.Currency))
	}

	doc := svg.NewChartDocument(s.history.LocalCurrency())
	c, err := chart.New(doc, opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	frame, err := c.Render(history.Items)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sess := &session{id: uuid.New(), address: req.Address, doc: doc, chart: c}
	s.sessions.add(sess)
	s.logger.Info("chart created",
		zap.String("chart_id", sess.id.String()),
		zap.String("address", req.Address),
		zap.Int("deltas", len(history.Items)))

	s.respond(w, r, chartResponse{ID: sess.id.String(), Frame: frame})
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	if !acceptsGzip(r) {
		if _, err := sess.doc.WriteTo(w); err != nil {
			s.logger.Warn("write chart", zap.String("chart_id", sess.id.String()), zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Vary", "Accept-Encoding")
	gz := gzip.NewWriter(w)
	defer gz.Close()

	if _, err := sess.doc.WriteTo(&gzipResponseWriter{ResponseWriter: w, writer: gz}); err != nil {
		s.logger.Warn("write chart", zap.String("chart_id", sess.id.String()), zap.Error(err))
	}
}

func (s *Server) handleSelectCurrency(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req selectCurrencyRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Currency == "" {
		s.fail(w, r, errors.Wrap(domain.ErrInvalidInput, "currency is required"))
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	moves, err := sess.chart.SelectCurrency(req.Currency)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	frame, _ := sess.chart.Frame()
	if moves == nil {
		moves = []carousel.SlotMove{}
	}

	s.respond(w, r, selectCurrencyResponse{Moves: moves, Frame: frame})
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.remove(id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("chart deleted", zap.String("chart_id", id))
	s.respond(w, r, map[string]string{"id": id})
}
