package comparison

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	TypeLuz = "luz"
	TypeGas = "gas"
)

// DefaultRecentLimit is the size of the recent comparisons list.
const DefaultRecentLimit = 5

var (
	// ErrNotFound is returned when a comparison does not exist.
	ErrNotFound = errors.New("comparison not found")
	// ErrInvalidRecord is returned when a record is missing required fields.
	ErrInvalidRecord = errors.New("invalid comparison record")
)

// Input is the normalized comparison payload handed from the wizard to the
// results view. Consumers must tolerate missing optional keys.
type Input struct {
	ComparisonType        string    `json:"comparisonType"`
	CustomerType          string    `json:"customerType,omitempty"`
	ClientName            string    `json:"clientName"`
	NumDias               float64   `json:"numDias"`
	CurrentBillAmount     float64   `json:"currentBillAmount"`
	HasMainServices       bool      `json:"hasMainServices,omitempty"`
	MainMaintenanceCost   float64   `json:"mainMaintenanceCost,omitempty"`
	AddClientBillData     bool      `json:"addClientBillData,omitempty"`
	HasClientServices     bool      `json:"hasClientServices,omitempty"`
	ClientMaintenanceCost float64   `json:"clientMaintenanceCost,omitempty"`
	Luz                   *LuzInput `json:"luz,omitempty"`
	Gas                   *GasInput `json:"gas,omitempty"`
}

// LuzInput carries the electricity-only fields.
type LuzInput struct {
	TariffType         string    `json:"tariffType"`
	SolarPanelActive   bool      `json:"solarPanelActive,omitempty"`
	Excedentes         float64   `json:"excedentes,omitempty"`
	Potencias          []float64 `json:"potencias"`
	Energias           []float64 `json:"energias"`
	ClientPowerPrices  []float64 `json:"clientPowerPrices,omitempty"`
	ClientEnergyPrices []float64 `json:"clientEnergyPrices,omitempty"`
	ClientSurplusPrice float64   `json:"clientSurplusPrice,omitempty"`
}

// GasInput carries the gas-only fields.
type GasInput struct {
	GasTariff            string  `json:"gasTariff"`
	GasEnergy            float64 `json:"gasEnergy"`
	ClientFixedPrice     float64 `json:"clientFixedPrice,omitempty"`
	ClientGasEnergyPrice float64 `json:"clientGasEnergyPrice,omitempty"`
}

// TariffType returns the access tariff of whichever supply the input describes.
func (in Input) TariffType() string {
	switch {
	case in.Luz != nil:
		return in.Luz.TariffType
	case in.Gas != nil:
		return in.Gas.GasTariff
	default:
		return ""
	}
}

// MainMaintenance returns the maintenance fee of the proposed offer.
func (in Input) MainMaintenance() float64 {
	if !in.HasMainServices {
		return 0
	}
	return in.MainMaintenanceCost
}

// ClientMaintenance returns the maintenance fee on the client's current bill.
func (in Input) ClientMaintenance() float64 {
	if !in.HasClientServices {
		return 0
	}
	return in.ClientMaintenanceCost
}

// Record is a persisted comparison as owned by the backend.
type Record struct {
	ID                 int64   `json:"id"`
	UUID               string  `json:"uuid"`
	ClientName         string  `json:"clientName"`
	ComparisonType     string  `json:"comparisonType"`
	TariffType         string  `json:"tariffType"`
	CalculatedOldPrice float64 `json:"calculatedOldPrice"`
	CalculatedNewPrice float64 `json:"calculatedNewPrice"`
	CreatedAt          string  `json:"createdAt"`
}

// NewRecord is the payload used to create a comparison.
type NewRecord struct {
	UUID               string  `json:"uuid"`
	ClientName         string  `json:"clientName"`
	ComparisonType     string  `json:"comparisonType"`
	CustomerType       string  `json:"customerType,omitempty"`
	TariffType         string  `json:"tariffType"`
	CalculatedOldPrice float64 `json:"calculatedOldPrice"`
	CalculatedNewPrice float64 `json:"calculatedNewPrice"`
	Input              Input   `json:"input"`
}

// Validate checks the fields the backend requires on creation.
func (r NewRecord) Validate() error {
	if strings.TrimSpace(r.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidRecord)
	}
	if r.ComparisonType != TypeLuz && r.ComparisonType != TypeGas {
		return fmt.Errorf("%w: comparisonType %q", ErrInvalidRecord, r.ComparisonType)
	}
	return nil
}

// Store persists comparison records.
type Store interface {
	Recent(ctx context.Context, limit int) ([]Record, error)
	Create(ctx context.Context, rec NewRecord) (Record, error)
	Delete(ctx context.Context, id int64) error
}
