// Package audit persists served predictions in an embedded bbolt database
// so recent activity can be inspected without external infrastructure.
// Keys encode the prediction timestamp, which makes newest-first reads a
// reverse cursor walk.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"model-serving-api/internal/core/domain"
	ports "model-serving-api/internal/core/ports/output"
)

const predictionsBucket = "predictions"

// DefaultRecentLimit is used when a caller asks for a non-positive number
// of records.
const DefaultRecentLimit = 50

// Store is a bbolt-backed prediction audit trail. It implements
// ports.AuditStore and is safe for concurrent use.
type Store struct {
	db *bbolt.DB
}

var _ ports.AuditStore = (*Store)(nil)

// Open creates or opens the audit database at path, creating parent
// directories as needed. The open is bounded so a file locked by another
// process fails fast instead of blocking startup.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit store directory %s: %w", dir, err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open audit store %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(predictionsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create predictions bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Record appends one prediction to the trail.
func (s *Store) Record(rec domain.PredictionRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal prediction record: %w", err)
		}
		// Zero-padding keeps lexicographic key order equal to time order;
		// the record ID breaks ties between same-nanosecond predictions.
		key := fmt.Sprintf("%020d_%s", rec.Timestamp.UnixNano(), rec.ID)
		return tx.Bucket([]byte(predictionsBucket)).Put([]byte(key), data)
	})
}

// Recent returns up to limit records, newest first. A non-positive limit
// selects DefaultRecentLimit.
func (s *Store) Recent(limit int) ([]domain.PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	records := make([]domain.PredictionRecord, 0, limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(predictionsBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec domain.PredictionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal prediction record %s: %w", k, err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}
