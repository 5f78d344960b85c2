package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLStore reads and writes the tariffs table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const selectTariffs = `
	SELECT
		id,
		name,
		supply_type,
		tariff_type,
		power_prices_json,
		energy_prices_json,
		surplus_price,
		fixed_price,
		gas_energy_price,
		active,
		created_at,
		updated_at
	FROM tariffs
`

// List returns every tariff, active or not.
func (s *SQLStore) List(ctx context.Context) ([]Tariff, error) {
	rows, err := s.db.QueryContext(ctx, selectTariffs+` ORDER BY supply_type, tariff_type, name`)
	if err != nil {
		return nil, fmt.Errorf("query tariffs: %w", err)
	}
	return scanTariffs(rows)
}

// Candidates returns the active tariffs that can price a comparison of the
// given supply and access tariff.
func (s *SQLStore) Candidates(ctx context.Context, supply, tariffType string) ([]Tariff, error) {
	rows, err := s.db.QueryContext(ctx, selectTariffs+`
		WHERE supply_type = ? AND tariff_type = ? AND active = TRUE
		ORDER BY id
	`, supply, tariffType)
	if err != nil {
		return nil, fmt.Errorf("query candidate tariffs: %w", err)
	}
	return scanTariffs(rows)
}

func (s *SQLStore) Create(ctx context.Context, t Tariff) (Tariff, error) {
	if err := t.Validate(); err != nil {
		return Tariff{}, err
	}

	powerJSON, energyJSON, err := encodePrices(t)
	if err != nil {
		return Tariff{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tariffs (
			name,
			supply_type,
			tariff_type,
			power_prices_json,
			energy_prices_json,
			surplus_price,
			fixed_price,
			gas_energy_price,
			active
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.Name, t.SupplyType, t.TariffType, powerJSON, energyJSON, t.SurplusPrice, t.FixedPrice, t.GasEnergyPrice, t.Active)
	if err != nil {
		return Tariff{}, fmt.Errorf("insert tariff: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Tariff{}, fmt.Errorf("read tariff id: %w", err)
	}
	return s.get(ctx, id)
}

// SetActive toggles whether a tariff is offered in comparisons.
func (s *SQLStore) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tariffs
		SET
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, active, id)
	if err != nil {
		return fmt.Errorf("update tariff: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tariff: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) get(ctx context.Context, id int64) (Tariff, error) {
	rows, err := s.db.QueryContext(ctx, selectTariffs+` WHERE id = ?`, id)
	if err != nil {
		return Tariff{}, fmt.Errorf("query tariff: %w", err)
	}
	tariffs, err := scanTariffs(rows)
	if err != nil {
		return Tariff{}, err
	}
	if len(tariffs) == 0 {
		return Tariff{}, ErrNotFound
	}
	return tariffs[0], nil
}

func scanTariffs(rows *sql.Rows) ([]Tariff, error) {
	defer rows.Close()

	tariffs := make([]Tariff, 0)
	for rows.Next() {
		var t Tariff
		var powerJSON, energyJSON string
		if err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.SupplyType,
			&t.TariffType,
			&powerJSON,
			&energyJSON,
			&t.SurplusPrice,
			&t.FixedPrice,
			&t.GasEnergyPrice,
			&t.Active,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tariff: %w", err)
		}
		if err := json.Unmarshal([]byte(powerJSON), &t.PowerPrices); err != nil {
			return nil, fmt.Errorf("decode power prices of tariff %d: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(energyJSON), &t.EnergyPrices); err != nil {
			return nil, fmt.Errorf("decode energy prices of tariff %d: %w", t.ID, err)
		}
		tariffs = append(tariffs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tariffs: %w", err)
	}
	return tariffs, nil
}

func encodePrices(t Tariff) (string, string, error) {
	power := t.PowerPrices
	if power == nil {
		power = []float64{}
	}
	energy := t.EnergyPrices
	if energy == nil {
		energy = []float64{}
	}

	powerJSON, err := json.Marshal(power)
	if err != nil {
		return "", "", fmt.Errorf("encode power prices: %w", err)
	}
	energyJSON, err := json.Marshal(energy)
	if err != nil {
		return "", "", fmt.Errorf("encode energy prices: %w", err)
	}
	return string(powerJSON), string(energyJSON), nil
}
