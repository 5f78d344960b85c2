package wizard

import (
	"strconv"
	"strings"

	"github.com/Simplici0/comparativas/internal/pricing"
)

// Kind tells the presentation layer how to render a step.
type Kind string

const (
	KindChoice   Kind = "choice"
	KindPeriods  Kind = "periods"
	KindInput    Kind = "input"
	KindYesNo    Kind = "yes_no"
	KindDecision Kind = "decision"
)

// Advance is the rule that moves the wizard forward without an explicit "next".
type Advance string

const (
	AdvanceManual   Advance = "manual"
	AdvanceOnSelect Advance = "on_select"
	AdvanceOnNo     Advance = "on_no"
)

const (
	StepSupplyType         = "tipo-suministro"
	StepCustomerType       = "tipo-cliente"
	StepTariffType         = "tarifa"
	StepPotencias          = "potencias"
	StepEnergias           = "energias"
	StepSolarPanel         = "placas-solares"
	StepGasTariff          = "tarifa-gas"
	StepGasEnergy          = "consumo-gas"
	StepNumDias            = "dias"
	StepCurrentBill        = "importe-factura"
	StepMainServices       = "servicios"
	StepClientName         = "nombre-cliente"
	StepDecision           = "datos-factura-cliente"
	StepClientPowerPrices  = "precios-potencia-cliente"
	StepClientEnergyPrices = "precios-energia-cliente"
	StepClientFixedPrice   = "precio-fijo-cliente"
	StepClientGasEnergy    = "precio-energia-gas-cliente"
	StepClientServices     = "servicios-cliente"
)

// Step is one entry of the declarative step table.
type Step struct {
	Name    string           `json:"name"`
	Kind    Kind             `json:"kind"`
	Fields  []string         `json:"fields"`
	Advance Advance          `json:"advance"`
	Valid   func(Draft) bool `json:"-"`
}

var commonSteps = []Step{
	{
		Name: StepSupplyType, Kind: KindChoice, Fields: []string{"supplyType"}, Advance: AdvanceOnSelect,
		Valid: func(d Draft) bool { return d.SupplyType == SupplyLuz || d.SupplyType == SupplyGas },
	},
	{
		Name: StepCustomerType, Kind: KindChoice, Fields: []string{"customerType"}, Advance: AdvanceOnSelect,
		Valid: func(d Draft) bool { return d.CustomerType == CustomerParticular || d.CustomerType == CustomerEmpresa },
	},
}

var sharedTailSteps = []Step{
	{
		Name: StepNumDias, Kind: KindInput, Fields: []string{"numDias"}, Advance: AdvanceManual,
		Valid: func(d Draft) bool { return isPositiveInt(d.NumDias) },
	},
	{
		Name: StepCurrentBill, Kind: KindInput, Fields: []string{"currentBillAmount"}, Advance: AdvanceManual,
		Valid: func(d Draft) bool { return pricing.IsNumber(d.CurrentBillAmount) },
	},
	{
		Name: StepMainServices, Kind: KindYesNo, Fields: []string{"hasMainServices", "mainMaintenanceCost"}, Advance: AdvanceOnNo,
		Valid: func(d Draft) bool { return !d.HasMainServices || pricing.IsNumber(d.MainMaintenanceCost) },
	},
	{
		Name: StepClientName, Kind: KindInput, Fields: []string{"clientName"}, Advance: AdvanceManual,
		Valid: func(d Draft) bool { return strings.TrimSpace(d.ClientName) != "" },
	},
	{
		Name: StepDecision, Kind: KindDecision, Fields: []string{"addClientBillData"}, Advance: AdvanceManual,
		Valid: func(Draft) bool { return true },
	},
}

var clientServicesStep = Step{
	Name: StepClientServices, Kind: KindYesNo, Fields: []string{"hasClientServices", "clientMaintenanceCost"}, Advance: AdvanceOnNo,
	Valid: func(d Draft) bool { return !d.HasClientServices || pricing.IsNumber(d.ClientMaintenanceCost) },
}

var (
	luzBaseSteps = join(commonSteps, []Step{
		{
			Name: StepTariffType, Kind: KindChoice, Fields: []string{"tariffType"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool { return isTariffType(d.TariffType) },
		},
		{
			Name: StepPotencias, Kind: KindPeriods, Fields: []string{"potencias"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool {
				power, _ := pricing.PeriodCounts(d.TariffType)
				return isTariffType(d.TariffType) && allNumbers(d.Potencias, power)
			},
		},
		{
			Name: StepEnergias, Kind: KindPeriods, Fields: []string{"energias"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool {
				_, energy := pricing.PeriodCounts(d.TariffType)
				return isTariffType(d.TariffType) && allNumbers(d.Energias, energy)
			},
		},
		{
			Name: StepSolarPanel, Kind: KindYesNo, Fields: []string{"solarPanelActive", "excedentes"}, Advance: AdvanceOnNo,
			Valid: func(d Draft) bool { return !d.SolarPanelActive || pricing.IsNumber(d.Excedentes) },
		},
	}, sharedTailSteps)

	luzClientSteps = []Step{
		{
			Name: StepClientPowerPrices, Kind: KindPeriods, Fields: []string{"clientPowerPrices"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool {
				power, _ := pricing.PeriodCounts(d.TariffType)
				return allNumbers(d.ClientPowerPrices, power)
			},
		},
		{
			Name: StepClientEnergyPrices, Kind: KindPeriods, Fields: []string{"clientEnergyPrices", "clientSurplusPrice"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool {
				_, energy := pricing.PeriodCounts(d.TariffType)
				if !allNumbers(d.ClientEnergyPrices, energy) {
					return false
				}
				return !d.SolarPanelActive || pricing.IsNumber(d.ClientSurplusPrice)
			},
		},
		clientServicesStep,
	}

	gasBaseSteps = join(commonSteps, []Step{
		{
			Name: StepGasTariff, Kind: KindChoice, Fields: []string{"gasTariff"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool { return isGasTariff(d.GasTariff) },
		},
		{
			Name: StepGasEnergy, Kind: KindInput, Fields: []string{"gasEnergy"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool { return pricing.IsNumber(d.GasEnergy) },
		},
	}, sharedTailSteps)

	gasClientSteps = []Step{
		{
			Name: StepClientFixedPrice, Kind: KindInput, Fields: []string{"clientFixedPrice"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool { return pricing.IsNumber(d.ClientFixedPrice) },
		},
		{
			Name: StepClientGasEnergy, Kind: KindInput, Fields: []string{"clientGasEnergyPrice"}, Advance: AdvanceManual,
			Valid: func(d Draft) bool { return pricing.IsNumber(d.ClientGasEnergyPrice) },
		},
		clientServicesStep,
	}

	luzFullSteps = join(luzBaseSteps, luzClientSteps)
	gasFullSteps = join(gasBaseSteps, gasClientSteps)
)

// Sequence returns the ordered steps for a supply type and branch.
func Sequence(supply SupplyType, addClientBillData bool) []Step {
	switch supply {
	case SupplyLuz:
		if addClientBillData {
			return luzFullSteps
		}
		return luzBaseSteps
	case SupplyGas:
		if addClientBillData {
			return gasFullSteps
		}
		return gasBaseSteps
	default:
		return commonSteps[:1]
	}
}

// TotalSteps is the length of the active step sequence.
func TotalSteps(supply SupplyType, addClientBillData bool) int {
	return len(Sequence(supply, addClientBillData))
}

// StepAt returns the 1-based step n of the active sequence.
func StepAt(supply SupplyType, addClientBillData bool, n int) (Step, bool) {
	seq := Sequence(supply, addClientBillData)
	if n < 1 || n > len(seq) {
		return Step{}, false
	}
	return seq[n-1], true
}

// decisionBoundary is the first step unlocked by answering "Sí" at the decision step.
func decisionBoundary(supply SupplyType) int {
	return TotalSteps(supply, false) + 1
}

func join(parts ...[]Step) []Step {
	var out []Step
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func allNumbers(values []string, want int) bool {
	if want == 0 || len(values) != want {
		return false
	}
	for _, v := range values {
		if !pricing.IsNumber(v) {
			return false
		}
	}
	return true
}

func isPositiveInt(raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	return err == nil && n > 0
}
