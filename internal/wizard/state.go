package wizard

import (
	"github.com/Simplici0/comparativas/internal/comparison"
	"github.com/Simplici0/comparativas/internal/pricing"
)

// State is the full wizard state. Methods never mutate the receiver.
type State struct {
	Step              int   `json:"formStep"`
	MaxStepReached    int   `json:"maxStepReached"`
	AddClientBillData bool  `json:"addClientBillData"`
	Draft             Draft `json:"draft"`
}

// New returns an empty wizard positioned on the first step.
func New() State {
	return State{Step: 1, MaxStepReached: 1}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Draft = s.Draft.Clone()
	return out
}

func (s State) TotalSteps() int {
	return TotalSteps(s.Draft.SupplyType, s.AddClientBillData)
}

// Current returns the step being displayed.
func (s State) Current() Step {
	step, _ := StepAt(s.Draft.SupplyType, s.AddClientBillData, s.Step)
	return step
}

// ValidateStep reports whether step n is complete for the current draft.
// Steps outside the active sequence are never valid.
func (s State) ValidateStep(n int) bool {
	step, ok := StepAt(s.Draft.SupplyType, s.AddClientBillData, n)
	if !ok {
		return false
	}
	return step.Valid(s.Draft)
}

// IsFormValid is true when every step before the last one validates.
func (s State) IsFormValid() bool {
	total := s.TotalSteps()
	for n := 1; n < total; n++ {
		if !s.ValidateStep(n) {
			return false
		}
	}
	return true
}

// CanSubmit gates the calculate action on the final step.
func (s State) CanSubmit() bool {
	if s.Draft.SupplyType == SupplyNone {
		return false
	}
	return s.IsFormValid() && s.ValidateStep(s.TotalSteps())
}

// InvalidSteps lists the visited steps that currently fail validation.
func (s State) InvalidSteps() []int {
	limit := min(s.MaxStepReached, s.TotalSteps())
	invalid := make([]int, 0)
	for n := 1; n <= limit; n++ {
		if !s.ValidateStep(n) {
			invalid = append(invalid, n)
		}
	}
	return invalid
}

// Next moves one step forward. It is a no-op on the last step.
func (s State) Next() State {
	out := s.Clone()
	if out.Step >= out.TotalSteps() {
		return out
	}
	out.Step++
	if out.Step > out.MaxStepReached {
		out.MaxStepReached = out.Step
	}
	return out
}

// Back moves one step backwards. Leaving the first client-price step closes
// the client-price branch again.
func (s State) Back() State {
	out := s.Clone()
	if out.Step <= 1 {
		return out
	}
	if out.AddClientBillData && out.Step == decisionBoundary(out.Draft.SupplyType) {
		out.AddClientBillData = false
	}
	out.Step--
	return out
}

// Input casts the raw draft into the normalized comparison payload.
// Unparsable numbers become 0.
func (s State) Input() comparison.Input {
	d := s.Draft
	in := comparison.Input{
		ComparisonType:      string(d.SupplyType),
		CustomerType:        string(d.CustomerType),
		ClientName:          d.ClientName,
		NumDias:             pricing.ParseNumber(d.NumDias),
		CurrentBillAmount:   pricing.ParseNumber(d.CurrentBillAmount),
		HasMainServices:     d.HasMainServices,
		MainMaintenanceCost: pricing.ParseNumber(d.MainMaintenanceCost),
		AddClientBillData:   s.AddClientBillData,
	}
	if s.AddClientBillData {
		in.HasClientServices = d.HasClientServices
		in.ClientMaintenanceCost = pricing.ParseNumber(d.ClientMaintenanceCost)
	}

	switch d.SupplyType {
	case SupplyLuz:
		luz := &comparison.LuzInput{
			TariffType:       d.TariffType,
			SolarPanelActive: d.SolarPanelActive,
			Potencias:        pricing.ParseNumbers(d.Potencias),
			Energias:         pricing.ParseNumbers(d.Energias),
		}
		if d.SolarPanelActive {
			luz.Excedentes = pricing.ParseNumber(d.Excedentes)
		}
		if s.AddClientBillData {
			luz.ClientPowerPrices = pricing.ParseNumbers(d.ClientPowerPrices)
			luz.ClientEnergyPrices = pricing.ParseNumbers(d.ClientEnergyPrices)
			if d.SolarPanelActive {
				luz.ClientSurplusPrice = pricing.ParseNumber(d.ClientSurplusPrice)
			}
		}
		in.Luz = luz
	case SupplyGas:
		gas := &comparison.GasInput{
			GasTariff: d.GasTariff,
			GasEnergy: pricing.ParseNumber(d.GasEnergy),
		}
		if s.AddClientBillData {
			gas.ClientFixedPrice = pricing.ParseNumber(d.ClientFixedPrice)
			gas.ClientGasEnergyPrice = pricing.ParseNumber(d.ClientGasEnergyPrice)
		}
		in.Gas = gas
	}
	return in
}

// View is the JSON shape returned to the presentation layer.
type View struct {
	ID string `json:"id"`
	State
	TotalSteps   int   `json:"totalSteps"`
	CurrentStep  Step  `json:"currentStep"`
	StepValid    bool  `json:"stepValid"`
	InvalidSteps []int `json:"invalidSteps"`
	IsFormValid  bool  `json:"isFormValid"`
	CanSubmit    bool  `json:"canSubmit"`
}

// View derives everything the progress indicator and step renderer need.
func (s State) View(id string) View {
	return View{
		ID:           id,
		State:        s,
		TotalSteps:   s.TotalSteps(),
		CurrentStep:  s.Current(),
		StepValid:    s.ValidateStep(s.Step),
		InvalidSteps: s.InvalidSteps(),
		IsFormValid:  s.IsFormValid(),
		CanSubmit:    s.CanSubmit(),
	}
}
