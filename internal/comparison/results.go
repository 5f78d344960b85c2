package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/comparativas/internal/catalog"
	"github.com/Simplici0/comparativas/internal/handoff"
	"github.com/Simplici0/comparativas/internal/pricing"
)

const currentBillLabel = "Factura actual"

// Side is one column of the results view.
type Side struct {
	Label          string                        `json:"label"`
	Total          float64                       `json:"total"`
	TotalFormatted string                        `json:"totalFormatted"`
	Electricity    *pricing.ElectricityBreakdown `json:"electricity,omitempty"`
	Gas            *pricing.GasBreakdown         `json:"gas,omitempty"`
}

// Results compares the client's current bill against the best catalog offer.
type Results struct {
	UUID      string          `json:"uuid"`
	Input     Input           `json:"input"`
	Current   Side            `json:"current"`
	Proposed  Side            `json:"proposed"`
	TariffID  int64           `json:"tariffId,omitempty"`
	Estimated bool            `json:"estimated"`
	Savings   pricing.Savings `json:"savings"`

	MonthlySavingFormatted string `json:"monthlySavingFormatted"`
	AnnualSavingFormatted  string `json:"annualSavingFormatted"`
}

// Results builds the comparison handed off under id.
func (s *Service) Results(ctx context.Context, id string) (Results, error) {
	raw, err := s.handoffs.Get(ctx, id)
	if errors.Is(err, handoff.ErrNotFound) {
		return Results{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Results{}, fmt.Errorf("read handed-off comparison: %w", err)
	}

	in, err := DecodeInput(raw)
	if err != nil {
		return Results{}, err
	}

	out := Results{UUID: id, Input: in}
	estimate := QuickEstimate(in)
	out.Current = s.currentSide(in, estimate)

	proposed, tariffID, ok, err := s.bestOffer(ctx, in)
	if err != nil {
		return Results{}, err
	}
	if ok {
		out.Proposed = proposed
		out.TariffID = tariffID
	} else {
		out.Proposed = Side{Label: "Estimación", Total: estimate.NewPrice}
		out.Estimated = true
	}

	out.Current.Total = pricing.RoundMoney(out.Current.Total)
	out.Proposed.Total = pricing.RoundMoney(out.Proposed.Total)
	out.Current.TotalFormatted = pricing.FormatEuro(out.Current.Total)
	out.Proposed.TotalFormatted = pricing.FormatEuro(out.Proposed.Total)

	out.Savings = pricing.CalculateSavings(out.Current.Total, out.Proposed.Total)
	out.MonthlySavingFormatted = pricing.FormatEuro(out.Savings.Monthly)
	out.AnnualSavingFormatted = pricing.FormatEuro(out.Savings.Annual)
	return out, nil
}

// DecodeInput reads a handed-off payload. Missing optional keys decode as
// zero values.
func DecodeInput(raw string) (Input, error) {
	var in Input
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return Input{}, fmt.Errorf("decode comparison input: %w", err)
	}
	if in.Luz == nil && in.Gas == nil {
		return Input{}, fmt.Errorf("decode comparison input: missing %s/%s data", TypeLuz, TypeGas)
	}
	return in, nil
}

func (s *Service) currentSide(in Input, estimate pricing.Estimate) Side {
	side := Side{Label: currentBillLabel}

	if in.AddClientBillData {
		switch {
		case in.Luz != nil:
			b := pricing.CalculateElectricity(pricing.ElectricityInput{
				Potencias:       in.Luz.Potencias,
				Energias:        in.Luz.Energias,
				NumDias:         in.NumDias,
				PowerPrices:     in.Luz.ClientPowerPrices,
				EnergyPrices:    in.Luz.ClientEnergyPrices,
				Excedentes:      surplus(in.Luz),
				SurplusPrice:    in.Luz.ClientSurplusPrice,
				MaintenanceCost: in.ClientMaintenance(),
			}, s.constants.ForElectricity())
			side.Electricity = &b
			side.Total = b.Total
			return side
		case in.Gas != nil:
			b := pricing.CalculateGas(pricing.GasInput{
				FixedPrice:      in.Gas.ClientFixedPrice,
				EnergyPrice:     in.Gas.ClientGasEnergyPrice,
				Energia:         in.Gas.GasEnergy,
				NumDias:         in.NumDias,
				MaintenanceCost: in.ClientMaintenance(),
			}, s.constants.ForGas(in.Gas.GasTariff))
			side.Gas = &b
			side.Total = b.Total
			return side
		}
	}

	side.Total = in.CurrentBillAmount
	if side.Total <= 0 {
		side.Total = estimate.OldPrice
	}
	return side
}

// bestOffer prices every active candidate and keeps the cheapest.
func (s *Service) bestOffer(ctx context.Context, in Input) (Side, int64, bool, error) {
	if s.tariffs == nil {
		return Side{}, 0, false, nil
	}

	candidates, err := s.tariffs.Candidates(ctx, in.ComparisonType, in.TariffType())
	if err != nil {
		return Side{}, 0, false, fmt.Errorf("load candidate tariffs: %w", err)
	}

	var best Side
	var bestID int64
	found := false
	for _, t := range candidates {
		side := s.price(in, t)
		if !found || side.Total < best.Total {
			best, bestID, found = side, t.ID, true
		}
	}
	return best, bestID, found, nil
}

func (s *Service) price(in Input, t catalog.Tariff) Side {
	side := Side{Label: t.Name}
	switch {
	case in.Luz != nil:
		b := pricing.CalculateElectricity(pricing.ElectricityInput{
			Potencias:       in.Luz.Potencias,
			Energias:        in.Luz.Energias,
			NumDias:         in.NumDias,
			PowerPrices:     t.PowerPrices,
			EnergyPrices:    t.EnergyPrices,
			Excedentes:      surplus(in.Luz),
			SurplusPrice:    t.SurplusPrice,
			MaintenanceCost: in.MainMaintenance(),
		}, s.constants.ForElectricity())
		side.Electricity = &b
		side.Total = b.Total
	case in.Gas != nil:
		b := pricing.CalculateGas(pricing.GasInput{
			FixedPrice:      t.FixedPrice,
			EnergyPrice:     t.GasEnergyPrice,
			Energia:         in.Gas.GasEnergy,
			NumDias:         in.NumDias,
			MaintenanceCost: in.MainMaintenance(),
		}, s.constants.ForGas(in.Gas.GasTariff))
		side.Gas = &b
		side.Total = b.Total
	}
	return side
}

func surplus(luz *LuzInput) float64 {
	if !luz.SolarPanelActive {
		return 0
	}
	return luz.Excedentes
}
