package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/satchart/internal/chart"
	"github.com/vadiminshakov/satchart/internal/surface/svg"
)

// session one chart instance with the document it draws on.
type session struct {
	mu       sync.Mutex
	id       uuid.UUID
	address  string
	doc      *svg.Document
	chart    *chart.Context
	lastUsed time.Time
}

// sessions registry of live charts, evicting the least recently used one when full.
type sessions struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*session
	limit int
}

func newSessions(limit int) *sessions {
	return &sessions{byID: make(map[uuid.UUID]*session), limit: limit}
}

func (s *sessions) add(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.byID) >= s.limit {
		var oldest *session
		for _, candidate := range s.byID {
			if oldest == nil || candidate.lastUsed.Before(oldest.lastUsed) {
				oldest = candidate
			}
		}
		delete(s.byID, oldest.id)
	}
	sess.lastUsed = time.Now()
	s.byID[sess.id] = sess
}

func (s *sessions) get(rawID string) (*session, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errors.Wrapf(errNotFound, "chart %q", rawID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, errors.Wrapf(errNotFound, "chart %s", id)
	}
	sess.lastUsed = time.Now()
	return sess, nil
}

func (s *sessions) remove(rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return errors.Wrapf(errNotFound, "chart %q", rawID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return errors.Wrapf(errNotFound, "chart %s", id)
	}
	delete(s.byID, id)
	return nil
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
