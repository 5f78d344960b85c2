package wizard

import (
	"slices"

	"github.com/Simplici0/comparativas/internal/pricing"
)

// SupplyType selects the step sequence and cost model.
type SupplyType string

const (
	SupplyNone SupplyType = ""
	SupplyLuz  SupplyType = "luz"
	SupplyGas  SupplyType = "gas"
)

// CustomerType distinguishes households from businesses.
type CustomerType string

const (
	CustomerParticular CustomerType = "particular"
	CustomerEmpresa    CustomerType = "empresa"
)

var (
	tariffTypes = []string{"2.0", "3.0", "6.1"}
	gasTariffs  = []string{"RL.1", "RL.2", "RL.3"}
)

// Draft is the comparison being collected. Numeric fields keep the raw text
// typed by the user until the wizard is completed.
type Draft struct {
	SupplyType   SupplyType   `json:"supplyType"`
	CustomerType CustomerType `json:"customerType"`

	TariffType       string   `json:"tariffType"`
	SolarPanelActive bool     `json:"solarPanelActive"`
	Excedentes       string   `json:"excedentes"`
	Potencias        []string `json:"potencias"`
	Energias         []string `json:"energias"`

	GasTariff string `json:"gasTariff"`
	GasEnergy string `json:"gasEnergy"`

	NumDias             string `json:"numDias"`
	CurrentBillAmount   string `json:"currentBillAmount"`
	HasMainServices     bool   `json:"hasMainServices"`
	MainMaintenanceCost string `json:"mainMaintenanceCost"`
	ClientName          string `json:"clientName"`

	ClientPowerPrices     []string `json:"clientPowerPrices"`
	ClientEnergyPrices    []string `json:"clientEnergyPrices"`
	ClientSurplusPrice    string   `json:"clientSurplusPrice"`
	ClientFixedPrice      string   `json:"clientFixedPrice"`
	ClientGasEnergyPrice  string   `json:"clientGasEnergyPrice"`
	HasClientServices     bool     `json:"hasClientServices"`
	ClientMaintenanceCost string   `json:"clientMaintenanceCost"`
}

// Clone returns a copy that shares no slices with d.
func (d Draft) Clone() Draft {
	out := d
	out.Potencias = slices.Clone(d.Potencias)
	out.Energias = slices.Clone(d.Energias)
	out.ClientPowerPrices = slices.Clone(d.ClientPowerPrices)
	out.ClientEnergyPrices = slices.Clone(d.ClientEnergyPrices)
	return out
}

// SetTariffType switches the electricity access tariff and resizes the four
// per-period slices together: power slices to the power-period count, energy
// slices to the energy-period count. Values at surviving indices are kept.
func (d *Draft) SetTariffType(tariffType string) {
	power, energy := pricing.PeriodCounts(tariffType)
	d.TariffType = tariffType
	d.Potencias = resize(d.Potencias, power)
	d.ClientPowerPrices = resize(d.ClientPowerPrices, power)
	d.Energias = resize(d.Energias, energy)
	d.ClientEnergyPrices = resize(d.ClientEnergyPrices, energy)
}

func resize(values []string, n int) []string {
	out := make([]string, n)
	copy(out, values)
	return out
}

func isTariffType(v string) bool {
	return slices.Contains(tariffTypes, v)
}

func isGasTariff(v string) bool {
	return slices.Contains(gasTariffs, v)
}
