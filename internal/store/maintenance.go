package store

import (
	"context"
	"fmt"
	"log/slog"
)

// Statistics describes database size and record counts.
type Statistics struct {
	TotalSizeBytes  int64
	UsedSizeBytes   int64
	ConferenceCount int64
	SessionCount    int64
	SpeakerCount    int64
	VenueCount      int64
}

// Vacuum reclaims unused space.
func (s *Store) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("store: vacuum: %w", err)
	}
	return nil
}

// Stats returns size and row-count statistics.
func (s *Store) Stats(ctx context.Context) (Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Statistics
	var pageCount, pageSize, freeCount int64
	pragmas := []struct {
		stmt string
		dst  *int64
	}{
		{"PRAGMA page_count", &pageCount},
		{"PRAGMA page_size", &pageSize},
		{"PRAGMA freelist_count", &freeCount},
	}
	for _, p := range pragmas {
		if err := s.db.GetContext(ctx, p.dst, p.stmt); err != nil {
			return st, fmt.Errorf("store: %s: %w", p.stmt, err)
		}
	}
	st.TotalSizeBytes = pageCount * pageSize
	st.UsedSizeBytes = (pageCount - freeCount) * pageSize

	counts := []struct {
		table string
		dst   *int64
	}{
		{"conference", &st.ConferenceCount},
		{"session", &st.SessionCount},
		{"speaker", &st.SpeakerCount},
		{"venue", &st.VenueCount},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, "SELECT COUNT(*) FROM "+c.table); err != nil {
			return st, fmt.Errorf("store: count %s: %w", c.table, err)
		}
	}
	return st, nil
}

// CheckIntegrity runs the SQLite integrity check and reports whether it
// passed.
func (s *Store) CheckIntegrity(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result string
	if err := s.db.GetContext(ctx, &result, "PRAGMA integrity_check"); err != nil {
		return false, fmt.Errorf("store: integrity check: %w", err)
	}
	if result != "ok" {
		slog.Warn("integrity check failed", "result", result)
		return false, nil
	}
	return true, nil
}
