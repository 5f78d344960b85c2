package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

var testElectricityRegulated = ElectricityRegulated{Alquiler: 0.02, Social: 0.01, Ihp: 5.11, Iva: 21}

func TestCalculateElectricity_TwoPeriodTariff(t *testing.T) {
	in := ElectricityInput{
		Potencias:    []float64{4.6, 4.6},
		Energias:     []float64{100, 50, 30},
		NumDias:      30,
		PowerPrices:  []float64{0.10, 0.10},
		EnergyPrices: []float64{0.15, 0.15, 0.15},
	}

	result := CalculateElectricity(in, testElectricityRegulated)

	nearlyEqual(t, "powerCosts[0]", result.PowerCosts[0], 13.8)
	nearlyEqual(t, "costePotencia", result.CostePotencia, 27.6)
	nearlyEqual(t, "costeEnergia", result.CosteEnergia, 27.0)
	nearlyEqual(t, "surplusCredit", result.SurplusCredit, 0)
	nearlyEqual(t, "equipmentRental", result.EquipmentRental, 0.6)
	nearlyEqual(t, "socialBonus", result.SocialBonus, 0.3)
	nearlyEqual(t, "baseIH", result.BaseIH, 55.5)
	nearlyEqual(t, "electricityTax", result.ElectricityTax, 2.83605)
	nearlyEqual(t, "baseIVA", result.BaseIVA, 58.33605)
	nearlyEqual(t, "vat", result.VAT, 12.2505705)
	nearlyEqual(t, "total", result.Total, 70.5866205)
}

func TestCalculateElectricity_SurplusCreditAndMaintenance(t *testing.T) {
	in := ElectricityInput{
		Potencias:       []float64{4.6, 4.6},
		Energias:        []float64{100, 50, 30},
		NumDias:         30,
		PowerPrices:     []float64{0.10, 0.10},
		EnergyPrices:    []float64{0.15, 0.15, 0.15},
		Excedentes:      50,
		SurplusPrice:    0.05,
		MaintenanceCost: 5,
	}

	result := CalculateElectricity(in, ElectricityRegulated{Iva: 10})

	nearlyEqual(t, "surplusCredit", result.SurplusCredit, 2.5)
	nearlyEqual(t, "baseIH", result.BaseIH, 52.1)
	nearlyEqual(t, "electricityTax", result.ElectricityTax, 0)
	nearlyEqual(t, "baseIVA", result.BaseIVA, 57.1)
	nearlyEqual(t, "vat", result.VAT, 5.71)
	nearlyEqual(t, "total", result.Total, 62.81)
}

func TestCalculateElectricity_NegativeBaseClampsTaxes(t *testing.T) {
	in := ElectricityInput{
		Potencias:    []float64{1},
		Energias:     []float64{10},
		NumDias:      1,
		PowerPrices:  []float64{1},
		EnergyPrices: []float64{1},
		Excedentes:   1000,
		SurplusPrice: 1,
	}

	result := CalculateElectricity(in, testElectricityRegulated)

	if result.BaseIH >= 0 {
		t.Fatalf("expected negative baseIH, got %v", result.BaseIH)
	}
	nearlyEqual(t, "electricityTax", result.ElectricityTax, 0)
	nearlyEqual(t, "vat", result.VAT, 0)
	nearlyEqual(t, "total", result.Total, result.BaseIVA)
}

func TestCalculateElectricity_MissingPricesCountAsZero(t *testing.T) {
	in := ElectricityInput{
		Potencias:    []float64{3, 3},
		Energias:     []float64{10, 20, 30},
		NumDias:      10,
		PowerPrices:  []float64{1},
		EnergyPrices: nil,
	}

	result := CalculateElectricity(in, ElectricityRegulated{})

	if len(result.PowerCosts) != 2 || len(result.EnergyCosts) != 3 {
		t.Fatalf("unexpected breakdown lengths: %+v", result)
	}
	nearlyEqual(t, "costePotencia", result.CostePotencia, 30)
	nearlyEqual(t, "costeEnergia", result.CosteEnergia, 0)
}

func TestCalculateGas_ReferenceBill(t *testing.T) {
	in := GasInput{FixedPrice: 0.20, EnergyPrice: 0.08, Energia: 500, NumDias: 30}
	reg := GasRegulated{Alquiler: 0.03, Hydrocarbon: 0.00234, Iva: 21}

	result := CalculateGas(in, reg)

	nearlyEqual(t, "fixedCost", result.FixedCost, 6.0)
	nearlyEqual(t, "energyCost", result.EnergyCost, 40.0)
	nearlyEqual(t, "equipmentRental", result.EquipmentRental, 0.9)
	nearlyEqual(t, "hydrocarbonTax", result.HydrocarbonTax, 1.17)
	nearlyEqual(t, "baseCost", result.BaseCost, 48.07)
	nearlyEqual(t, "vat", result.VAT, 10.0947)
	nearlyEqual(t, "total", result.Total, 58.1647)
}

func TestCalculateGas_MaintenanceIncludedInVATBase(t *testing.T) {
	in := GasInput{FixedPrice: 0, EnergyPrice: 0.1, Energia: 100, NumDias: 0, MaintenanceCost: 10}

	result := CalculateGas(in, GasRegulated{Iva: 10})

	nearlyEqual(t, "baseCost", result.BaseCost, 10)
	nearlyEqual(t, "vat", result.VAT, 2)
	nearlyEqual(t, "total", result.Total, 22)
}
