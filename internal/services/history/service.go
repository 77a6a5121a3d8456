// Package history persists verification outcomes per user. Recording is
// fire-and-forget so a storage failure never affects a verification response.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/interfaces"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

// DefaultRecordTimeout bounds a detached history write
const DefaultRecordTimeout = 5 * time.Second

// Service implements interfaces.HistoryService
type Service struct {
	storage       interfaces.HistoryStorage
	logger        arbor.ILogger
	validate      *validator.Validate
	recordTimeout time.Duration
	now           func() time.Time

	// async is replaced in tests to run Record synchronously
	async func(logger arbor.ILogger, name string, fn func())
}

var _ interfaces.HistoryService = (*Service)(nil)

// NewService creates a history service
func NewService(storage interfaces.HistoryStorage, logger arbor.ILogger, recordTimeout time.Duration) *Service {
	if logger == nil {
		logger = common.GetLogger()
	}
	if recordTimeout <= 0 {
		recordTimeout = DefaultRecordTimeout
	}

	return &Service{
		storage:       storage,
		logger:        logger,
		validate:      validator.New(),
		recordTimeout: recordTimeout,
		now:           func() time.Time { return time.Now().UTC() },
		async:         common.SafeGo,
	}
}

// Record stores a verification result in the background. Anonymous callers
// (empty userID) are skipped. Failures are logged and never returned.
func (s *Service) Record(ctx context.Context, userID string, contentType models.ContentType, content string, result interface{}) {
	if userID == "" {
		return
	}
	if !contentType.Valid() {
		s.logger.Warn().Str("content_type", string(contentType)).Msg("Unknown content type, history not saved")
		return
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn().Err(err).Str("content_type", string(contentType)).Msg("Failed to encode history result")
		return
	}

	record := &models.HistoryRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		ContentType: contentType,
		Content:     content,
		Result:      encoded,
		CreatedAt:   s.now(),
	}

	if err := s.validate.Struct(record); err != nil {
		s.logger.Warn().Err(err).Str("content_type", string(contentType)).Msg("Invalid history record, not saved")
		return
	}

	// Detach from the request context so a finished response does not cancel the write
	base := context.WithoutCancel(ctx)

	s.async(s.logger, "recordHistory", func() {
		writeCtx, cancel := context.WithTimeout(base, s.recordTimeout)
		defer cancel()

		if err := s.storage.SaveRecord(writeCtx, record); err != nil {
			s.logger.Warn().
				Err(err).
				Str("user_id", userID).
				Str("content_type", string(contentType)).
				Msg("Failed to record history")
			return
		}

		s.logger.Debug().
			Str("id", record.ID).
			Str("content_type", string(contentType)).
			Msg("History recorded")
	})
}

// List returns the user's most recent records, newest first
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}
	if limit > models.MaxHistoryLimit {
		limit = models.MaxHistoryLimit
	}

	records, err := s.storage.ListRecords(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}

// Delete removes one of the user's records
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteRecord(ctx, userID, id)
}

// Clear removes all of the user's records
func (s *Service) Clear(ctx context.Context, userID string) (int, error) {
	deleted, err := s.storage.ClearRecords(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Int("deleted", deleted).Msg("History cleared")
	return deleted, nil
}
