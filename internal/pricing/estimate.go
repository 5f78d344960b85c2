package pricing

const (
	quickPowerRate    = 0.12
	quickEnergyRate   = 0.15
	quickLuzDiscount  = 0.82
	quickGasRate      = 0.08
	quickGasDiscount  = 0.88
	monthsPerYear     = 12
	percentMultiplier = 100
)

// Estimate is the heuristic old/new price pair used when no catalog tariff matches.
type Estimate struct {
	OldPrice float64 `json:"oldPrice"`
	NewPrice float64 `json:"newPrice"`
}

// Savings compares a current total against a proposed one on a monthly billing basis.
type Savings struct {
	Monthly float64 `json:"monthlySaving"`
	Annual  float64 `json:"annualSaving"`
	Percent float64 `json:"percentSaving"`
}

// QuickEstimateElectricity is a placeholder estimator, not a bill calculation.
// Use CalculateElectricity when real unit prices are known.
func QuickEstimateElectricity(potencias, energias []float64, numDias float64) Estimate {
	oldPrice := average(potencias)*quickPowerRate*numDias + average(energias)*quickEnergyRate
	return Estimate{OldPrice: oldPrice, NewPrice: oldPrice * quickLuzDiscount}
}

// QuickEstimateGas is the gas counterpart of QuickEstimateElectricity.
func QuickEstimateGas(gasEnergy float64) Estimate {
	oldPrice := gasEnergy * quickGasRate
	return Estimate{OldPrice: oldPrice, NewPrice: oldPrice * quickGasDiscount}
}

// CalculateSavings derives monthly, annual and percentage savings.
func CalculateSavings(oldTotal, newTotal float64) Savings {
	monthly := oldTotal - newTotal
	percent := 0.0
	if oldTotal > 0 {
		percent = monthly / oldTotal * percentMultiplier
	}
	return Savings{
		Monthly: monthly,
		Annual:  monthly * monthsPerYear,
		Percent: percent,
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
