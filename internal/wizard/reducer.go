package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAction   = errors.New("unknown wizard action")
	ErrInvalidValue    = errors.New("invalid value")
	ErrIndexOutOfRange = errors.New("period index out of range")
	ErrNotDecisionStep = errors.New("not on the decision step")
	ErrWrongStep       = errors.New("action not allowed on this step")
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrNothingToUndo   = errors.New("nothing to undo")
)

// ActionType names a wizard transition.
type ActionType string

const (
	ActionSelectSupply          ActionType = "select_supply"
	ActionSelectCustomer        ActionType = "select_customer"
	ActionSetTariffType         ActionType = "set_tariff_type"
	ActionSetPotencia           ActionType = "set_potencia"
	ActionSetEnergia            ActionType = "set_energia"
	ActionAnswerSolarPanel      ActionType = "answer_solar_panel"
	ActionSetExcedentes         ActionType = "set_excedentes"
	ActionSetGasTariff          ActionType = "set_gas_tariff"
	ActionSetGasEnergy          ActionType = "set_gas_energy"
	ActionSetNumDias            ActionType = "set_num_dias"
	ActionSetCurrentBill        ActionType = "set_current_bill"
	ActionAnswerMainServices    ActionType = "answer_main_services"
	ActionSetMainMaintenance    ActionType = "set_main_maintenance"
	ActionSetClientName         ActionType = "set_client_name"
	ActionDecideClientBillData  ActionType = "decide_client_bill_data"
	ActionSetClientPowerPrice   ActionType = "set_client_power_price"
	ActionSetClientEnergyPrice  ActionType = "set_client_energy_price"
	ActionSetClientSurplusPrice ActionType = "set_client_surplus_price"
	ActionSetClientFixedPrice   ActionType = "set_client_fixed_price"
	ActionSetClientGasEnergy    ActionType = "set_client_gas_energy_price"
	ActionAnswerClientServices  ActionType = "answer_client_services"
	ActionSetClientMaintenance  ActionType = "set_client_maintenance"
	ActionNext                  ActionType = "next"
	ActionBack                  ActionType = "back"
	ActionCalculate             ActionType = "calculate"
)

// Action is a single user event. Index addresses a period for the per-period
// setters, Flag carries yes/no answers and Value carries everything else.
type Action struct {
	Type  ActionType `json:"type"`
	Index int        `json:"index,omitempty"`
	Value string     `json:"value,omitempty"`
	Flag  bool       `json:"flag,omitempty"`
}

// Effect is a side effect requested by a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectSubmit
)

// Reduce applies a to s and returns the new state. s is never modified. On
// error the returned state is s unchanged.
func Reduce(s State, a Action) (State, Effect, error) {
	next := s.Clone()
	d := &next.Draft

	switch a.Type {
	case ActionSelectSupply:
		supply := SupplyType(a.Value)
		if supply != SupplyLuz && supply != SupplyGas {
			return s, EffectNone, fmt.Errorf("%w: supplyType %q", ErrInvalidValue, a.Value)
		}
		// The step sequence depends on the supply, so it only changes from step 1.
		if next.Current().Name != StepSupplyType {
			return s, EffectNone, fmt.Errorf("%w: supplyType is chosen on step 1", ErrWrongStep)
		}
		if d.SupplyType != supply {
			next.AddClientBillData = false
		}
		d.SupplyType = supply
		next.MaxStepReached = min(next.MaxStepReached, next.TotalSteps())
		return next.advanceFrom(StepSupplyType), EffectNone, nil

	case ActionSelectCustomer:
		customer := CustomerType(a.Value)
		if customer != CustomerParticular && customer != CustomerEmpresa {
			return s, EffectNone, fmt.Errorf("%w: customerType %q", ErrInvalidValue, a.Value)
		}
		d.CustomerType = customer
		return next.advanceFrom(StepCustomerType), EffectNone, nil

	case ActionSetTariffType:
		if !isTariffType(a.Value) {
			return s, EffectNone, fmt.Errorf("%w: tariffType %q", ErrInvalidValue, a.Value)
		}
		d.SetTariffType(a.Value)

	case ActionSetPotencia:
		if err := setPeriod(d.Potencias, a); err != nil {
			return s, EffectNone, err
		}
	case ActionSetEnergia:
		if err := setPeriod(d.Energias, a); err != nil {
			return s, EffectNone, err
		}
	case ActionSetClientPowerPrice:
		if err := setPeriod(d.ClientPowerPrices, a); err != nil {
			return s, EffectNone, err
		}
	case ActionSetClientEnergyPrice:
		if err := setPeriod(d.ClientEnergyPrices, a); err != nil {
			return s, EffectNone, err
		}

	case ActionAnswerSolarPanel:
		d.SolarPanelActive = a.Flag
		if !a.Flag {
			return next.advanceFrom(StepSolarPanel), EffectNone, nil
		}
	case ActionAnswerMainServices:
		d.HasMainServices = a.Flag
		if !a.Flag {
			return next.advanceFrom(StepMainServices), EffectNone, nil
		}
	case ActionAnswerClientServices:
		d.HasClientServices = a.Flag
		if !a.Flag {
			return next.advanceFrom(StepClientServices), EffectNone, nil
		}

	case ActionSetGasTariff:
		if !isGasTariff(a.Value) {
			return s, EffectNone, fmt.Errorf("%w: gasTariff %q", ErrInvalidValue, a.Value)
		}
		d.GasTariff = a.Value

	case ActionSetExcedentes:
		d.Excedentes = a.Value
	case ActionSetGasEnergy:
		d.GasEnergy = a.Value
	case ActionSetNumDias:
		d.NumDias = a.Value
	case ActionSetCurrentBill:
		d.CurrentBillAmount = a.Value
	case ActionSetMainMaintenance:
		d.MainMaintenanceCost = a.Value
	case ActionSetClientName:
		d.ClientName = a.Value
	case ActionSetClientSurplusPrice:
		d.ClientSurplusPrice = a.Value
	case ActionSetClientFixedPrice:
		d.ClientFixedPrice = a.Value
	case ActionSetClientGasEnergy:
		d.ClientGasEnergyPrice = a.Value
	case ActionSetClientMaintenance:
		d.ClientMaintenanceCost = a.Value

	case ActionDecideClientBillData:
		if next.Current().Kind != KindDecision {
			return s, EffectNone, ErrNotDecisionStep
		}
		if a.Flag {
			next.AddClientBillData = true
			return next.Next(), EffectNone, nil
		}
		if !next.IsFormValid() {
			return next, EffectNone, nil
		}
		return next, EffectSubmit, nil

	case ActionNext:
		if !next.ValidateStep(next.Step) {
			return next, EffectNone, nil
		}
		return next.Next(), EffectNone, nil

	case ActionBack:
		return next.Back(), EffectNone, nil

	case ActionCalculate:
		if next.Step != next.TotalSteps() || next.Current().Kind == KindDecision || !next.CanSubmit() {
			return next, EffectNone, nil
		}
		return next, EffectSubmit, nil

	default:
		return s, EffectNone, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}

	return next, EffectNone, nil
}

// advanceFrom moves forward only when the answered step is the one on screen.
func (s State) advanceFrom(stepName string) State {
	if s.Current().Name != stepName {
		return s
	}
	return s.Next()
}

func setPeriod(values []string, a Action) error {
	if a.Index < 0 || a.Index >= len(values) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, a.Index, len(values))
	}
	values[a.Index] = a.Value
	return nil
}
