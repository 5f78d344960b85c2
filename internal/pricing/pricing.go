package pricing

// ElectricityInput represents consumption and unit prices for one electricity tariff.
type ElectricityInput struct {
	Potencias       []float64
	Energias        []float64
	NumDias         float64
	PowerPrices     []float64
	EnergyPrices    []float64
	Excedentes      float64
	SurplusPrice    float64
	MaintenanceCost float64
}

// ElectricityRegulated holds the government-set electricity charges.
// Ihp and Iva are percentages.
type ElectricityRegulated struct {
	Alquiler float64
	Social   float64
	Ihp      float64
	Iva      float64
}

// ElectricityBreakdown contains every line item of an electricity bill estimate.
type ElectricityBreakdown struct {
	PowerCosts      []float64 `json:"powerCosts"`
	EnergyCosts     []float64 `json:"energyCosts"`
	CostePotencia   float64   `json:"costePotencia"`
	CosteEnergia    float64   `json:"costeEnergia"`
	SurplusCredit   float64   `json:"surplusCredit"`
	EquipmentRental float64   `json:"equipmentRental"`
	SocialBonus     float64   `json:"socialBonus"`
	BaseIH          float64   `json:"baseIH"`
	ElectricityTax  float64   `json:"electricityTax"`
	MaintenanceCost float64   `json:"maintenanceCost"`
	BaseIVA         float64   `json:"baseIVA"`
	VAT             float64   `json:"vat"`
	Total           float64   `json:"total"`
}

// GasInput represents consumption and unit prices for one gas tariff.
type GasInput struct {
	FixedPrice      float64
	EnergyPrice     float64
	Energia         float64
	NumDias         float64
	MaintenanceCost float64
}

// GasRegulated holds the government-set gas charges. Iva is a percentage.
type GasRegulated struct {
	Alquiler    float64
	Hydrocarbon float64
	Iva         float64
}

// GasBreakdown contains every line item of a gas bill estimate.
type GasBreakdown struct {
	FixedCost       float64 `json:"fixedCost"`
	EnergyCost      float64 `json:"energyCost"`
	EquipmentRental float64 `json:"equipmentRental"`
	HydrocarbonTax  float64 `json:"hydrocarbonTax"`
	BaseCost        float64 `json:"baseCost"`
	MaintenanceCost float64 `json:"maintenanceCost"`
	VAT             float64 `json:"vat"`
	Total           float64 `json:"total"`
}

// CalculateElectricity computes the itemized cost of an electricity tariff.
// Price slices shorter than the consumption slices contribute 0 for the missing periods.
func CalculateElectricity(in ElectricityInput, reg ElectricityRegulated) ElectricityBreakdown {
	powerCosts := make([]float64, len(in.Potencias))
	costePotencia := 0.0
	for i, kw := range in.Potencias {
		powerCosts[i] = kw * in.NumDias * at(in.PowerPrices, i)
		costePotencia += powerCosts[i]
	}

	energyCosts := make([]float64, len(in.Energias))
	costeEnergia := 0.0
	for i, kwh := range in.Energias {
		energyCosts[i] = kwh * at(in.EnergyPrices, i)
		costeEnergia += energyCosts[i]
	}

	surplusCredit := in.Excedentes * in.SurplusPrice
	equipmentRental := in.NumDias * reg.Alquiler
	socialBonus := in.NumDias * reg.Social

	baseIH := costePotencia + costeEnergia - surplusCredit + equipmentRental + socialBonus
	electricityTax := 0.0
	if baseIH > 0 {
		electricityTax = baseIH * reg.Ihp / 100.0
	}

	baseIVA := baseIH + electricityTax + in.MaintenanceCost
	vat := 0.0
	if baseIVA > 0 {
		vat = baseIVA * reg.Iva / 100.0
	}

	return ElectricityBreakdown{
		PowerCosts:      powerCosts,
		EnergyCosts:     energyCosts,
		CostePotencia:   costePotencia,
		CosteEnergia:    costeEnergia,
		SurplusCredit:   surplusCredit,
		EquipmentRental: equipmentRental,
		SocialBonus:     socialBonus,
		BaseIH:          baseIH,
		ElectricityTax:  electricityTax,
		MaintenanceCost: in.MaintenanceCost,
		BaseIVA:         baseIVA,
		VAT:             vat,
		Total:           baseIVA + vat,
	}
}

// CalculateGas computes the itemized cost of a gas tariff.
func CalculateGas(in GasInput, reg GasRegulated) GasBreakdown {
	fixedCost := in.FixedPrice * in.NumDias
	energyCost := in.Energia * in.EnergyPrice
	equipmentRental := reg.Alquiler * in.NumDias
	hydrocarbonTax := reg.Hydrocarbon * in.Energia

	baseCost := fixedCost + energyCost + equipmentRental + hydrocarbonTax
	vatBase := baseCost + in.MaintenanceCost
	vat := 0.0
	if vatBase > 0 {
		vat = vatBase * reg.Iva / 100.0
	}

	return GasBreakdown{
		FixedCost:       fixedCost,
		EnergyCost:      energyCost,
		EquipmentRental: equipmentRental,
		HydrocarbonTax:  hydrocarbonTax,
		BaseCost:        baseCost,
		MaintenanceCost: in.MaintenanceCost,
		VAT:             vat,
		Total:           vatBase + vat,
	}
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
