package database

import (
	"fmt"
	"time"
)

var _ FetchLogRepository = (*FetchLogSQLRepository)(nil)

// FetchLogSQLRepository handles database operations for the fetch audit log
type FetchLogSQLRepository struct {
	db *DB
}

func NewFetchLogRepository(db *DB) *FetchLogSQLRepository {
	return &FetchLogSQLRepository{db: db}
}

func (r *FetchLogSQLRepository) Record(entry FetchLog) error {
	ranAt := entry.RanAt
	if ranAt.IsZero() {
		ranAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO fetch_log (ran_at, triggered_by, shape, total_records, kept, dropped, display_total, error_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ranAt, entry.Trigger, entry.Shape, entry.TotalRecords, entry.Kept,
		entry.Dropped, entry.DisplayTotal, entry.ErrorText)
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}

	return nil
}

func (r *FetchLogSQLRepository) Recent(limit int) ([]FetchLog, error) {
	rows, err := r.db.Query(`
		SELECT id, ran_at, triggered_by, shape, total_records, kept, dropped, display_total, error_text
		FROM fetch_log
		ORDER BY ran_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch log: %w", err)
	}
	defer rows.Close()

	var entries []FetchLog
	for rows.Next() {
		var entry FetchLog
		err := rows.Scan(&entry.ID, &entry.RanAt, &entry.Trigger, &entry.Shape,
			&entry.TotalRecords, &entry.Kept, &entry.Dropped, &entry.DisplayTotal,
			&entry.ErrorText)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch log row: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *FetchLogSQLRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM fetch_log`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fetch log: %w", err)
	}
	return count, nil
}
