package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/Simplici0/comparativas/internal/db"
	"github.com/Simplici0/comparativas/internal/migrations"
	"github.com/Simplici0/comparativas/internal/pricing"
	"github.com/Simplici0/comparativas/internal/regulated"
	"github.com/Simplici0/comparativas/internal/seed"
)

const defaultDias = 30

var gasTolls = []string{"RL.1", "RL.2", "RL.3", "RL.4", "RL.5", "RL.6"}

func diasFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:  "dias",
		Value: defaultDias,
		Usage: "Days in the billing period",
	}
}

func maintenanceFlag() cli.Flag {
	return &cli.Float64Flag{
		Name:  "mantenimiento",
		Usage: "Maintenance services in euros",
	}
}

func luzCommand() *cli.Command {
	return &cli.Command{
		Name:  "luz",
		Usage: "Price an electricity bill",
		Flags: []cli.Flag{
			&cli.Float64SliceFlag{Name: "potencia", Usage: "Contracted power per period in kW", Required: true},
			&cli.Float64SliceFlag{Name: "energia", Usage: "Consumption per period in kWh", Required: true},
			&cli.Float64SliceFlag{Name: "precio-potencia", Usage: "Power price per period in €/kW/day"},
			&cli.Float64SliceFlag{Name: "precio-energia", Usage: "Energy price per period in €/kWh"},
			&cli.Float64Flag{Name: "excedentes", Usage: "Surplus energy fed back in kWh"},
			&cli.Float64Flag{Name: "precio-excedentes", Usage: "Compensation per surplus kWh"},
			diasFlag(),
			maintenanceFlag(),
		},
		Action: runLuz,
	}
}

func runLuz(c *cli.Context) error {
	constants, err := loadConstants(c)
	if err != nil {
		return err
	}
	dias := c.Float64("dias")
	if dias <= 0 {
		return errors.New("--dias must be positive")
	}

	breakdown := pricing.CalculateElectricity(pricing.ElectricityInput{
		Potencias:       c.Float64Slice("potencia"),
		Energias:        c.Float64Slice("energia"),
		NumDias:         dias,
		PowerPrices:     c.Float64Slice("precio-potencia"),
		EnergyPrices:    c.Float64Slice("precio-energia"),
		Excedentes:      c.Float64("excedentes"),
		SurplusPrice:    c.Float64("precio-excedentes"),
		MaintenanceCost: c.Float64("mantenimiento"),
	}, constants.ForElectricity())

	if c.Bool("json") {
		return printJSON(c.App.Writer, breakdown)
	}

	w := c.App.Writer
	for i, cost := range breakdown.PowerCosts {
		line(w, fmt.Sprintf("Potencia P%d", i+1), cost)
	}
	for i, cost := range breakdown.EnergyCosts {
		line(w, fmt.Sprintf("Energía P%d", i+1), cost)
	}
	if breakdown.SurplusCredit != 0 {
		line(w, "Excedentes", -breakdown.SurplusCredit)
	}
	line(w, "Alquiler de equipos", breakdown.EquipmentRental)
	line(w, "Bono social", breakdown.SocialBonus)
	line(w, "Impuesto eléctrico", breakdown.ElectricityTax)
	if breakdown.MaintenanceCost != 0 {
		line(w, "Mantenimiento", breakdown.MaintenanceCost)
	}
	line(w, "IVA", breakdown.VAT)
	line(w, "Total", breakdown.Total)
	return nil
}

func gasCommand() *cli.Command {
	return &cli.Command{
		Name:  "gas",
		Usage: "Price a gas bill",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "energia", Usage: "Consumption in kWh", Required: true},
			&cli.StringFlag{Name: "peaje", Value: "RL.1", Usage: "Gas access toll (RL.1 to RL.6)"},
			&cli.Float64Flag{Name: "precio-fijo", Usage: "Fixed price in €/day"},
			&cli.Float64Flag{Name: "precio-energia", Usage: "Energy price in €/kWh"},
			diasFlag(),
			maintenanceFlag(),
		},
		Action: runGas,
	}
}

func runGas(c *cli.Context) error {
	constants, err := loadConstants(c)
	if err != nil {
		return err
	}
	toll := c.String("peaje")
	if !slices.Contains(gasTolls, toll) {
		return fmt.Errorf("unknown gas toll %q", toll)
	}
	dias := c.Float64("dias")
	if dias <= 0 {
		return errors.New("--dias must be positive")
	}

	breakdown := pricing.CalculateGas(pricing.GasInput{
		FixedPrice:      c.Float64("precio-fijo"),
		EnergyPrice:     c.Float64("precio-energia"),
		Energia:         c.Float64("energia"),
		NumDias:         dias,
		MaintenanceCost: c.Float64("mantenimiento"),
	}, constants.ForGas(toll))

	if c.Bool("json") {
		return printJSON(c.App.Writer, breakdown)
	}

	w := c.App.Writer
	line(w, "Término fijo", breakdown.FixedCost)
	line(w, "Término variable", breakdown.EnergyCost)
	line(w, "Alquiler de contador", breakdown.EquipmentRental)
	line(w, "Impuesto de hidrocarburos", breakdown.HydrocarbonTax)
	if breakdown.MaintenanceCost != 0 {
		line(w, "Mantenimiento", breakdown.MaintenanceCost)
	}
	line(w, "IVA", breakdown.VAT)
	line(w, "Total", breakdown.Total)
	return nil
}

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Quick old/new estimate without unit prices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "suministro", Value: "luz", Usage: "luz or gas"},
			&cli.Float64SliceFlag{Name: "potencia", Usage: "Contracted power per period in kW"},
			&cli.Float64SliceFlag{Name: "energia", Usage: "Consumption per period in kWh"},
			diasFlag(),
		},
		Action: runEstimate,
	}
}

func runEstimate(c *cli.Context) error {
	var estimate pricing.Estimate
	switch c.String("suministro") {
	case "luz":
		estimate = pricing.QuickEstimateElectricity(c.Float64Slice("potencia"), c.Float64Slice("energia"), c.Float64("dias"))
	case "gas":
		total := 0.0
		for _, kwh := range c.Float64Slice("energia") {
			total += kwh
		}
		estimate = pricing.QuickEstimateGas(total)
	default:
		return fmt.Errorf("unknown supply %q", c.String("suministro"))
	}
	savings := pricing.CalculateSavings(estimate.OldPrice, estimate.NewPrice)

	if c.Bool("json") {
		return printJSON(c.App.Writer, struct {
			pricing.Estimate
			pricing.Savings
		}{estimate, savings})
	}

	w := c.App.Writer
	line(w, "Precio actual", estimate.OldPrice)
	line(w, "Precio propuesto", estimate.NewPrice)
	line(w, "Ahorro mensual", savings.Monthly)
	line(w, "Ahorro anual", savings.Annual)
	return nil
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Run migrations and load the default tariff catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Value:   "./comparativas.db",
				Usage:   "SQLite database path",
				EnvVars: []string{"DB_PATH"},
			},
		},
		Action: runSeed,
	}
}

func runSeed(c *cli.Context) error {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return err
	}
	stats, err := seed.Run(c.Context, database)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "tarifas insertadas: %d, existentes: %d\n", stats.Inserts, stats.Skipped)
	return nil
}

func loadConstants(c *cli.Context) (regulated.Constants, error) {
	return regulated.Load(c.String("regulated"))
}

func line(w io.Writer, label string, amount float64) {
	fmt.Fprintf(w, "%-28s %12s\n", label, pricing.FormatEuro(amount))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
