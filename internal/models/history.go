package models

import (
	"encoding/json"
	"time"
)

// HistoryRecord is a persisted verification outcome owned by a user.
// Result holds the JSON encoding of a TextResult, URLResult or ImageResult.
type HistoryRecord struct {
	ID          string          `json:"id" badgerhold:"key" validate:"required,uuid"`
	UserID      string          `json:"user_id" badgerholdIndex:"UserID" validate:"required"`
	ContentType ContentType     `json:"content_type" validate:"required,oneof=text url image"`
	Content     string          `json:"content" validate:"required"`
	Result      json.RawMessage `json:"result" validate:"required"`
	CreatedAt   time.Time       `json:"created_at" validate:"required"`
}

// DefaultHistoryLimit matches the page size shown by the history view
const DefaultHistoryLimit = 50

// MaxHistoryLimit bounds a single history listing
const MaxHistoryLimit = 200
