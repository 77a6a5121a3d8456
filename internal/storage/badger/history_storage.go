package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

// HistoryStorage implements interfaces.HistoryStorage for Badger
type HistoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

var _ interfaces.HistoryStorage = (*HistoryStorage)(nil)

// NewHistoryStorage creates a new HistoryStorage instance
func NewHistoryStorage(db *BadgerDB, logger arbor.ILogger) *HistoryStorage {
	return &HistoryStorage{
		db:     db,
		logger: logger,
	}
}

// SaveRecord inserts or replaces a record by ID
func (s *HistoryStorage) SaveRecord(ctx context.Context, record *models.HistoryRecord) error {
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	return nil
}

// ListRecords returns a user's records newest first, at most limit of them
func (s *HistoryStorage) ListRecords(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	var records []models.HistoryRecord

	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").
		SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}

	result := make([]*models.HistoryRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

// DeleteRecord removes one record. Records owned by another user are
// reported as not found.
func (s *HistoryStorage) DeleteRecord(ctx context.Context, userID, id string) error {
	var record models.HistoryRecord
	err := s.db.Store().Get(id, &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return interfaces.ErrHistoryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get history record: %w", err)
	}
	if record.UserID != userID {
		return interfaces.ErrHistoryNotFound
	}

	if err := s.db.Store().Delete(id, &models.HistoryRecord{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrHistoryNotFound
		}
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	return nil
}

// ClearRecords removes every record owned by userID and returns how many were removed
func (s *HistoryStorage) ClearRecords(ctx context.Context, userID string) (int, error) {
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")

	count, err := s.db.Store().Count(&models.HistoryRecord{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count history records: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.HistoryRecord{}, query); err != nil {
		return 0, fmt.Errorf("failed to clear history records: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("deleted", int(count)).
		Msg("History cleared")

	return int(count), nil
}

// PurgeBefore removes every record created before cutoff, across all users
func (s *HistoryStorage) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := badgerhold.Where("CreatedAt").Lt(cutoff)

	count, err := s.db.Store().Count(&models.HistoryRecord{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count expired history records: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.HistoryRecord{}, query); err != nil {
		return 0, fmt.Errorf("failed to purge history records: %w", err)
	}
	return int(count), nil
}

// CollectGarbage reclaims value log space left behind by deletes
func (s *HistoryStorage) CollectGarbage() error {
	return s.db.RunGC()
}

// Close closes the underlying database
func (s *HistoryStorage) Close() error {
	return s.db.Close()
}
