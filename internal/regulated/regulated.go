// Package regulated loads the government-set charges applied on top of every
// retailer tariff: meter rental, social bonus, electricity and hydrocarbon
// taxes, and VAT.
package regulated

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/comparativas/internal/pricing"
)

// Constants are the regulated charges in effect.
type Constants struct {
	Electricity Electricity `yaml:"electricity"`
	Gas         Gas         `yaml:"gas"`
}

// Electricity holds per-day charges in €/day and percentages in %.
type Electricity struct {
	Alquiler float64 `yaml:"alquiler"`
	Social   float64 `yaml:"social"`
	Ihp      float64 `yaml:"ihp"`
	Iva      float64 `yaml:"iva"`
}

// Gas holds meter rental per access tariff (€/day), the hydrocarbon tax in
// €/kWh and VAT in %.
type Gas struct {
	Alquiler    map[string]float64 `yaml:"alquiler"`
	Hydrocarbon float64            `yaml:"hydrocarbon"`
	Iva         float64            `yaml:"iva"`
}

// Defaults returns the constants used when no file is configured.
func Defaults() Constants {
	return Constants{
		Electricity: Electricity{
			Alquiler: 0.02663,
			Social:   0.012742,
			Ihp:      5.11269632,
			Iva:      21,
		},
		Gas: Gas{
			Alquiler: map[string]float64{
				"RL.1": 0.0197,
				"RL.2": 0.0337,
				"RL.3": 0.0661,
			},
			Hydrocarbon: 0.00234,
			Iva:         21,
		},
	}
}

// Overlay is the file shape. Keys present in the file replace the defaults,
// including an explicit 0; absent keys stay nil.
type Overlay struct {
	Electricity ElectricityOverlay `yaml:"electricity"`
	Gas         GasOverlay         `yaml:"gas"`
}

type ElectricityOverlay struct {
	Alquiler *float64 `yaml:"alquiler"`
	Social   *float64 `yaml:"social"`
	Ihp      *float64 `yaml:"ihp"`
	Iva      *float64 `yaml:"iva"`
}

type GasOverlay struct {
	Alquiler    map[string]float64 `yaml:"alquiler"`
	Hydrocarbon *float64           `yaml:"hydrocarbon"`
	Iva         *float64           `yaml:"iva"`
}

// Load reads path and overlays it on Defaults. An empty path returns the defaults.
func Load(path string) (Constants, error) {
	c := Defaults()
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, fmt.Errorf("read regulated constants: %w", err)
	}
	var fromFile Overlay
	if err := yaml.Unmarshal(raw, &fromFile); err != nil {
		return Constants{}, fmt.Errorf("parse regulated constants: %w", err)
	}

	c = Merge(c, fromFile)
	if err := c.Validate(); err != nil {
		return Constants{}, fmt.Errorf("regulated constants invalid: %w", err)
	}
	return c, nil
}

// Merge applies every field set in override onto base. base is not modified.
func Merge(base Constants, override Overlay) Constants {
	out := base
	set(&out.Electricity.Alquiler, override.Electricity.Alquiler)
	set(&out.Electricity.Social, override.Electricity.Social)
	set(&out.Electricity.Ihp, override.Electricity.Ihp)
	set(&out.Electricity.Iva, override.Electricity.Iva)

	alquiler := make(map[string]float64, len(base.Gas.Alquiler))
	for k, v := range base.Gas.Alquiler {
		alquiler[k] = v
	}
	for k, v := range override.Gas.Alquiler {
		alquiler[k] = v
	}
	out.Gas.Alquiler = alquiler
	set(&out.Gas.Hydrocarbon, override.Gas.Hydrocarbon)
	set(&out.Gas.Iva, override.Gas.Iva)
	return out
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func (c Constants) Validate() error {
	e := c.Electricity
	if e.Alquiler < 0 || e.Social < 0 {
		return errors.New("electricity.alquiler and electricity.social must be >= 0")
	}
	if !isPercent(e.Ihp) || !isPercent(e.Iva) {
		return errors.New("electricity.ihp and electricity.iva must be between 0 and 100")
	}
	for tariff, v := range c.Gas.Alquiler {
		if v < 0 {
			return fmt.Errorf("gas.alquiler[%s] must be >= 0", tariff)
		}
	}
	if c.Gas.Hydrocarbon < 0 {
		return errors.New("gas.hydrocarbon must be >= 0")
	}
	if !isPercent(c.Gas.Iva) {
		return errors.New("gas.iva must be between 0 and 100")
	}
	return nil
}

// ForElectricity converts the constants to the engine's input shape.
func (c Constants) ForElectricity() pricing.ElectricityRegulated {
	return pricing.ElectricityRegulated{
		Alquiler: c.Electricity.Alquiler,
		Social:   c.Electricity.Social,
		Ihp:      c.Electricity.Ihp,
		Iva:      c.Electricity.Iva,
	}
}

// ForGas converts the constants for the given gas access tariff. Unknown
// tariffs get no meter rental.
func (c Constants) ForGas(gasTariff string) pricing.GasRegulated {
	return pricing.GasRegulated{
		Alquiler:    c.Gas.Alquiler[gasTariff],
		Hydrocarbon: c.Gas.Hydrocarbon,
		Iva:         c.Gas.Iva,
	}
}

func isPercent(v float64) bool {
	return v >= 0 && v <= 100
}
