// Package catalog holds the commercial tariffs offered to clients.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Simplici0/comparativas/internal/pricing"
)

const (
	SupplyLuz = "luz"
	SupplyGas = "gas"
)

var (
	ErrNotFound      = errors.New("tariff not found")
	ErrInvalidTariff = errors.New("invalid tariff")
)

var (
	electricityTariffs = []string{"2.0", "3.0", "6.1"}
	gasTariffs         = []string{"RL.1", "RL.2", "RL.3"}
)

// Tariff is an offer from the catalog. Electricity offers use the per-period
// price arrays and the surplus price; gas offers use the fixed and energy prices.
type Tariff struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	SupplyType     string    `json:"supplyType"`
	TariffType     string    `json:"tariffType"`
	PowerPrices    []float64 `json:"powerPrices"`
	EnergyPrices   []float64 `json:"energyPrices"`
	SurplusPrice   float64   `json:"surplusPrice"`
	FixedPrice     float64   `json:"fixedPrice"`
	GasEnergyPrice float64   `json:"gasEnergyPrice"`
	Active         bool      `json:"active"`
	CreatedAt      string    `json:"createdAt,omitempty"`
	UpdatedAt      string    `json:"updatedAt,omitempty"`
}

// Validate checks the tariff against the period layout of its access tariff.
func (t Tariff) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name es requerido", ErrInvalidTariff)
	}

	switch t.SupplyType {
	case SupplyLuz:
		if !slices.Contains(electricityTariffs, t.TariffType) {
			return fmt.Errorf("%w: tariffType %q", ErrInvalidTariff, t.TariffType)
		}
		power, energy := pricing.PeriodCounts(t.TariffType)
		if len(t.PowerPrices) != power {
			return fmt.Errorf("%w: se esperaban %d precios de potencia, hay %d", ErrInvalidTariff, power, len(t.PowerPrices))
		}
		if len(t.EnergyPrices) != energy {
			return fmt.Errorf("%w: se esperaban %d precios de energía, hay %d", ErrInvalidTariff, energy, len(t.EnergyPrices))
		}
		if err := nonNegative("powerPrices", t.PowerPrices...); err != nil {
			return err
		}
		if err := nonNegative("energyPrices", t.EnergyPrices...); err != nil {
			return err
		}
		return nonNegative("surplusPrice", t.SurplusPrice)
	case SupplyGas:
		if !slices.Contains(gasTariffs, t.TariffType) {
			return fmt.Errorf("%w: tariffType %q", ErrInvalidTariff, t.TariffType)
		}
		return nonNegative("gas prices", t.FixedPrice, t.GasEnergyPrice)
	default:
		return fmt.Errorf("%w: supplyType %q", ErrInvalidTariff, t.SupplyType)
	}
}

func nonNegative(field string, values ...float64) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: %s debe ser mayor o igual a 0", ErrInvalidTariff, field)
		}
	}
	return nil
}
