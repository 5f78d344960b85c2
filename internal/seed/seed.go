// Package seed loads the default tariff catalog into a fresh database.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Simplici0/comparativas/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// DefaultTariffs is the catalog offered before anyone edits it.
func DefaultTariffs() []catalog.Tariff {
	return []catalog.Tariff{
		{
			Name:         "Luz Hogar 2.0",
			SupplyType:   catalog.SupplyLuz,
			TariffType:   "2.0",
			PowerPrices:  []float64{0.086, 0.012},
			EnergyPrices: []float64{0.139, 0.139, 0.139},
			SurplusPrice: 0.06,
			Active:       true,
		},
		{
			Name:         "Luz Negocio 3.0",
			SupplyType:   catalog.SupplyLuz,
			TariffType:   "3.0",
			PowerPrices:  []float64{0.062, 0.034, 0.014, 0.012, 0.008, 0.005},
			EnergyPrices: []float64{0.171, 0.152, 0.131, 0.122, 0.111, 0.105},
			SurplusPrice: 0.05,
			Active:       true,
		},
		{
			Name:         "Luz Industria 6.1",
			SupplyType:   catalog.SupplyLuz,
			TariffType:   "6.1",
			PowerPrices:  []float64{0.081, 0.041, 0.018, 0.014, 0.004, 0.002},
			EnergyPrices: []float64{0.148, 0.137, 0.121, 0.113, 0.102, 0.098},
			Active:       true,
		},
		{Name: "Gas RL.1", SupplyType: catalog.SupplyGas, TariffType: "RL.1", FixedPrice: 0.16, GasEnergyPrice: 0.071, Active: true},
		{Name: "Gas RL.2", SupplyType: catalog.SupplyGas, TariffType: "RL.2", FixedPrice: 0.28, GasEnergyPrice: 0.066, Active: true},
		{Name: "Gas RL.3", SupplyType: catalog.SupplyGas, TariffType: "RL.3", FixedPrice: 0.61, GasEnergyPrice: 0.062, Active: true},
	}
}

// Run inserts the default tariffs that are not present yet, by name, in a
// single transaction. Running it again is a no-op.
func Run(ctx context.Context, db *sql.DB) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, t := range DefaultTariffs() {
		if err := ensureTariff(ctx, tx, t, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureTariff(ctx context.Context, tx *sql.Tx, t catalog.Tariff, stats *Stats) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("default tariff %s: %w", t.Name, err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tariffs WHERE name = ? LIMIT 1)`, t.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check tariff %s existence: %w", t.Name, err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	power, err := json.Marshal(nonNil(t.PowerPrices))
	if err != nil {
		return fmt.Errorf("encode power prices of %s: %w", t.Name, err)
	}
	energy, err := json.Marshal(nonNil(t.EnergyPrices))
	if err != nil {
		return fmt.Errorf("encode energy prices of %s: %w", t.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `
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
	`, t.Name, t.SupplyType, t.TariffType, string(power), string(energy), t.SurplusPrice, t.FixedPrice, t.GasEnergyPrice, t.Active); err != nil {
		return fmt.Errorf("insert tariff %s: %w", t.Name, err)
	}
	stats.Inserts++
	return nil
}

func nonNil(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}
