package comparison

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLStore keeps comparison records in the local SQLite database.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// Recent returns up to limit records, newest first.
func (s *SQLStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			uuid,
			client_name,
			comparison_type,
			tariff_type,
			calculated_old_price,
			calculated_new_price,
			created_at
		FROM comparisons
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent comparisons: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.UUID,
			&rec.ClientName,
			&rec.ComparisonType,
			&rec.TariffType,
			&rec.CalculatedOldPrice,
			&rec.CalculatedNewPrice,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comparisons: %w", err)
	}

	return records, nil
}

func (s *SQLStore) Create(ctx context.Context, rec NewRecord) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	if rec.UUID == "" {
		rec.UUID = uuid.NewString()
	}

	inputJSON, err := json.Marshal(rec.Input)
	if err != nil {
		return Record{}, fmt.Errorf("encode comparison input: %w", err)
	}

	createdAt := s.now().UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO comparisons (
			uuid,
			client_name,
			comparison_type,
			customer_type,
			tariff_type,
			calculated_old_price,
			calculated_new_price,
			input_json,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.UUID,
		strings.TrimSpace(rec.ClientName),
		rec.ComparisonType,
		rec.CustomerType,
		rec.TariffType,
		rec.CalculatedOldPrice,
		rec.CalculatedNewPrice,
		string(inputJSON),
		createdAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert comparison: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("read comparison id: %w", err)
	}

	return Record{
		ID:                 id,
		UUID:               rec.UUID,
		ClientName:         strings.TrimSpace(rec.ClientName),
		ComparisonType:     rec.ComparisonType,
		TariffType:         rec.TariffType,
		CalculatedOldPrice: rec.CalculatedOldPrice,
		CalculatedNewPrice: rec.CalculatedNewPrice,
		CreatedAt:          createdAt,
	}, nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comparison: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comparison: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
