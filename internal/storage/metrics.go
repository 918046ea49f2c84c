package storage

import (
	"database/sql"
	"time"
)

// OperationRecord is a single recorded query invocation.
type OperationRecord struct {
	ID            int64
	Operation     string
	ResultCount   int
	ReturnedCount int
	DurationMs    int64
	ErrorCode     string
	RecordedAt    time.Time
}

// OperationAggregate is the rolled-up view of one operation.
type OperationAggregate struct {
	Operation     string  `json:"operation"`
	QueryCount    int64   `json:"query_count"`
	ErrorCount    int64   `json:"error_count"`
	TotalResults  int64   `json:"total_results"`
	TotalReturned int64   `json:"total_returned"`
	TotalMs       int64   `json:"total_ms"`
	AvgLatencyMs  float64 `json:"avg_latency_ms"`
}

// RecordOperation persists one query invocation. errCode is empty on
// success.
func (db *DB) RecordOperation(operation string, resultCount, returnedCount int, duration time.Duration, errCode string) error {
	_, err := db.conn.Exec(`
		INSERT INTO operation_metrics (
			operation, result_count, returned_count, duration_ms, error_code, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`, operation, resultCount, returnedCount, duration.Milliseconds(), errCode,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		db.logger.Warn("failed to record operation metric", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	}
	return err
}

// Aggregates returns per-operation rollups for records at or after since,
// busiest operations first.
func (db *DB) Aggregates(since time.Time) ([]OperationAggregate, error) {
	rows, err := db.conn.Query(`
		SELECT
			operation,
			COUNT(*) AS query_count,
			SUM(CASE WHEN error_code != '' THEN 1 ELSE 0 END) AS error_count,
			SUM(result_count) AS total_results,
			SUM(returned_count) AS total_returned,
			SUM(duration_ms) AS total_ms
		FROM operation_metrics
		WHERE recorded_at >= ?
		GROUP BY operation
		ORDER BY query_count DESC, operation ASC
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []OperationAggregate
	for rows.Next() {
		var agg OperationAggregate
		if err := rows.Scan(
			&agg.Operation,
			&agg.QueryCount,
			&agg.ErrorCount,
			&agg.TotalResults,
			&agg.TotalReturned,
			&agg.TotalMs,
		); err != nil {
			return nil, err
		}
		if agg.QueryCount > 0 {
			agg.AvgLatencyMs = float64(agg.TotalMs) / float64(agg.QueryCount)
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, rows.Err()
}

// RecentRecords returns the newest records, optionally filtered by
// operation name.
func (db *DB) RecentRecords(limit int, operation string) ([]OperationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error
	if operation != "" {
		rows, err = db.conn.Query(`
			SELECT id, operation, result_count, returned_count, duration_ms, error_code, recorded_at
			FROM operation_metrics
			WHERE operation = ?
			ORDER BY id DESC
			LIMIT ?
		`, operation, limit)
	} else {
		rows, err = db.conn.Query(`
			SELECT id, operation, result_count, returned_count, duration_ms, error_code, recorded_at
			FROM operation_metrics
			ORDER BY id DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OperationRecord
	for rows.Next() {
		var r OperationRecord
		var recordedAt string
		if err := rows.Scan(
			&r.ID, &r.Operation, &r.ResultCount, &r.ReturnedCount,
			&r.DurationMs, &r.ErrorCode, &recordedAt,
		); err != nil {
			return nil, err
		}
		r.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// CleanupOld removes records older than retention and returns the number
// deleted.
func (db *DB) CleanupOld(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)
	result, err := db.conn.Exec(`DELETE FROM operation_metrics WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// TotalQueries returns the all-time invocation count.
func (db *DB) TotalQueries() (int64, error) {
	var n int64
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM operation_metrics`).Scan(&n)
	return n, err
}
