package wizard

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func mustReduce(t *testing.T, s State, a Action) State {
	t.Helper()
	next, _, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("Reduce(%+v): %v", a, err)
	}
	return next
}

func reduceAll(t *testing.T, s State, actions ...Action) State {
	t.Helper()
	for _, a := range actions {
		s = mustReduce(t, s, a)
	}
	return s
}

// luzAtDecision drives an electricity wizard to its decision step.
func luzAtDecision(t *testing.T) State {
	t.Helper()
	s := reduceAll(t, New(),
		Action{Type: ActionSelectSupply, Value: "luz"},
		Action{Type: ActionSelectCustomer, Value: "particular"},
		Action{Type: ActionSetTariffType, Value: "2.0"},
		Action{Type: ActionNext},
		Action{Type: ActionSetPotencia, Index: 0, Value: "4.6"},
		Action{Type: ActionSetPotencia, Index: 1, Value: "4.6"},
		Action{Type: ActionNext},
		Action{Type: ActionSetEnergia, Index: 0, Value: "100"},
		Action{Type: ActionSetEnergia, Index: 1, Value: "50"},
		Action{Type: ActionSetEnergia, Index: 2, Value: "30"},
		Action{Type: ActionNext},
		Action{Type: ActionAnswerSolarPanel, Flag: false},
		Action{Type: ActionSetNumDias, Value: "30"},
		Action{Type: ActionNext},
		Action{Type: ActionSetCurrentBill, Value: "85,40"},
		Action{Type: ActionNext},
		Action{Type: ActionAnswerMainServices, Flag: false},
		Action{Type: ActionSetClientName, Value: "Panadería Ruiz"},
		Action{Type: ActionNext},
	)
	if s.Step != 11 {
		t.Fatalf("expected to reach decision step 11, got %d (%s)", s.Step, s.Current().Name)
	}
	return s
}

func gasAtDecision(t *testing.T) State {
	t.Helper()
	s := reduceAll(t, New(),
		Action{Type: ActionSelectSupply, Value: "gas"},
		Action{Type: ActionSelectCustomer, Value: "empresa"},
		Action{Type: ActionSetGasTariff, Value: "RL.2"},
		Action{Type: ActionNext},
		Action{Type: ActionSetGasEnergy, Value: "500"},
		Action{Type: ActionNext},
		Action{Type: ActionSetNumDias, Value: "30"},
		Action{Type: ActionNext},
		Action{Type: ActionSetCurrentBill, Value: "60"},
		Action{Type: ActionNext},
		Action{Type: ActionAnswerMainServices, Flag: true},
		Action{Type: ActionSetMainMaintenance, Value: "4.5"},
		Action{Type: ActionNext},
		Action{Type: ActionSetClientName, Value: "Talleres Norte"},
		Action{Type: ActionNext},
	)
	if s.Step != 9 {
		t.Fatalf("expected to reach decision step 9, got %d (%s)", s.Step, s.Current().Name)
	}
	return s
}

func TestTotalStepsMatchesStepTable(t *testing.T) {
	cases := []struct {
		supply    SupplyType
		addClient bool
		want      int
	}{
		{SupplyNone, false, 1},
		{SupplyNone, true, 1},
		{SupplyLuz, false, 11},
		{SupplyLuz, true, 14},
		{SupplyGas, false, 9},
		{SupplyGas, true, 12},
	}
	for _, tc := range cases {
		if got := TotalSteps(tc.supply, tc.addClient); got != tc.want {
			t.Fatalf("TotalSteps(%q, %v) = %d, want %d", tc.supply, tc.addClient, got, tc.want)
		}
	}
}

func TestDecisionStepSitsAtEndOfBaseSequence(t *testing.T) {
	for _, supply := range []SupplyType{SupplyLuz, SupplyGas} {
		total := TotalSteps(supply, false)
		step, ok := StepAt(supply, false, total)
		if !ok || step.Kind != KindDecision {
			t.Fatalf("%s: step %d is %+v, want decision", supply, total, step)
		}
		if decisionBoundary(supply) != total+1 {
			t.Fatalf("%s: boundary %d, want %d", supply, decisionBoundary(supply), total+1)
		}
	}
}

func TestSetTariffTypeResizesParallelSlices(t *testing.T) {
	d := Draft{}
	d.SetTariffType("3.0")
	for i := range d.Potencias {
		d.Potencias[i] = "p"
		d.ClientPowerPrices[i] = "cp"
	}
	for i := range d.Energias {
		d.Energias[i] = "e"
		d.ClientEnergyPrices[i] = "ce"
	}

	d.SetTariffType("2.0")
	if len(d.Potencias) != 2 || len(d.ClientPowerPrices) != 2 {
		t.Fatalf("power slices = %d/%d, want 2", len(d.Potencias), len(d.ClientPowerPrices))
	}
	if len(d.Energias) != 3 || len(d.ClientEnergyPrices) != 3 {
		t.Fatalf("energy slices = %d/%d, want 3", len(d.Energias), len(d.ClientEnergyPrices))
	}

	d.SetTariffType("6.1")
	want := []string{"p", "p", "", "", "", ""}
	if !reflect.DeepEqual(d.Potencias, want) {
		t.Fatalf("potencias = %q, want %q", d.Potencias, want)
	}
	wantEnergy := []string{"e", "e", "e", "", "", ""}
	if !reflect.DeepEqual(d.Energias, wantEnergy) {
		t.Fatalf("energias = %q, want %q", d.Energias, wantEnergy)
	}
	if d.ClientPowerPrices[1] != "cp" || d.ClientPowerPrices[2] != "" {
		t.Fatalf("clientPowerPrices = %q", d.ClientPowerPrices)
	}
	if d.ClientEnergyPrices[2] != "ce" || d.ClientEnergyPrices[3] != "" {
		t.Fatalf("clientEnergyPrices = %q", d.ClientEnergyPrices)
	}
}

func TestTariffChangeKeepsStepAndReinvalidatesEarlierSteps(t *testing.T) {
	s := luzAtDecision(t)
	if invalid := s.InvalidSteps(); len(invalid) != 0 {
		t.Fatalf("expected no invalid steps, got %v", invalid)
	}

	s = mustReduce(t, s, Action{Type: ActionSetTariffType, Value: "3.0"})
	if s.Step != 11 {
		t.Fatalf("tariff change moved the wizard to step %d", s.Step)
	}
	if got := s.InvalidSteps(); !reflect.DeepEqual(got, []int{4, 5}) {
		t.Fatalf("InvalidSteps = %v, want [4 5]", got)
	}
	if s.IsFormValid() {
		t.Fatalf("expected form to be invalid after tariff change")
	}

	_, effect, err := Reduce(s, Action{Type: ActionDecideClientBillData, Flag: false})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if effect != EffectNone {
		t.Fatalf("expected no submission with an invalid form")
	}
}

func TestMaxStepReachedNeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := luzAtDecision(t)
	s = mustReduce(t, s, Action{Type: ActionDecideClientBillData, Flag: true})

	prev := s.MaxStepReached
	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			s = s.Next()
		} else {
			s = s.Back()
		}
		if s.MaxStepReached < prev {
			t.Fatalf("maxStepReached decreased from %d to %d at iteration %d", prev, s.MaxStepReached, i)
		}
		if s.Step < 1 || s.Step > s.TotalSteps() {
			t.Fatalf("step %d outside 1..%d", s.Step, s.TotalSteps())
		}
		prev = s.MaxStepReached
	}
}

func TestNextIsNoOpOnLastStepAndBackOnFirst(t *testing.T) {
	s := New()
	if got := s.Back(); got.Step != 1 {
		t.Fatalf("Back on step 1 moved to %d", got.Step)
	}
	if got := s.Next(); got.Step != 1 {
		t.Fatalf("Next with a single step moved to %d", got.Step)
	}

	s = luzAtDecision(t)
	if got := s.Next(); got.Step != 11 {
		t.Fatalf("Next on the last step moved to %d", got.Step)
	}
}

func TestNextActionIsGatedByStepValidity(t *testing.T) {
	s := reduceAll(t, New(),
		Action{Type: ActionSelectSupply, Value: "gas"},
		Action{Type: ActionSelectCustomer, Value: "particular"},
	)
	if s.Step != 3 {
		t.Fatalf("expected auto-advance to step 3, got %d", s.Step)
	}

	s = mustReduce(t, s, Action{Type: ActionNext})
	if s.Step != 3 {
		t.Fatalf("next without a gas tariff moved to step %d", s.Step)
	}
}

func TestYesNoStepsAdvanceOnlyOnNo(t *testing.T) {
	s := reduceAll(t, New(),
		Action{Type: ActionSelectSupply, Value: "luz"},
		Action{Type: ActionSelectCustomer, Value: "particular"},
		Action{Type: ActionSetTariffType, Value: "2.0"},
		Action{Type: ActionNext},
		Action{Type: ActionSetPotencia, Index: 0, Value: "3.3"},
		Action{Type: ActionSetPotencia, Index: 1, Value: "3.3"},
		Action{Type: ActionNext},
		Action{Type: ActionSetEnergia, Index: 0, Value: "1"},
		Action{Type: ActionSetEnergia, Index: 1, Value: "1"},
		Action{Type: ActionSetEnergia, Index: 2, Value: "1"},
		Action{Type: ActionNext},
	)
	if s.Current().Name != StepSolarPanel {
		t.Fatalf("expected solar panel step, got %s", s.Current().Name)
	}

	yes := mustReduce(t, s, Action{Type: ActionAnswerSolarPanel, Flag: true})
	if yes.Step != s.Step {
		t.Fatalf("answering yes advanced the wizard")
	}
	if yes.ValidateStep(yes.Step) {
		t.Fatalf("solar step must require excedentes when active")
	}
	yes = mustReduce(t, yes, Action{Type: ActionSetExcedentes, Value: "120"})
	if !yes.ValidateStep(yes.Step) {
		t.Fatalf("solar step should be valid with excedentes")
	}

	no := mustReduce(t, s, Action{Type: ActionAnswerSolarPanel, Flag: false})
	if no.Step != s.Step+1 {
		t.Fatalf("answering no should advance to %d, got %d", s.Step+1, no.Step)
	}
}

func TestDecisionNoSubmitsWithoutAdvancing(t *testing.T) {
	s := luzAtDecision(t)

	next, effect, err := Reduce(s, Action{Type: ActionDecideClientBillData, Flag: false})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if effect != EffectSubmit {
		t.Fatalf("expected submit effect")
	}
	if next.Step != 11 || next.AddClientBillData {
		t.Fatalf("unexpected state after submit: step=%d add=%v", next.Step, next.AddClientBillData)
	}
}

func TestDecisionOutsideDecisionStepIsRejected(t *testing.T) {
	s := reduceAll(t, New(), Action{Type: ActionSelectSupply, Value: "luz"})
	_, _, err := Reduce(s, Action{Type: ActionDecideClientBillData, Flag: true})
	if !errors.Is(err, ErrNotDecisionStep) {
		t.Fatalf("expected ErrNotDecisionStep, got %v", err)
	}
}

func TestDecisionYesExpandsAndBackClearsBranch(t *testing.T) {
	s := luzAtDecision(t)
	s = mustReduce(t, s, Action{Type: ActionDecideClientBillData, Flag: true})

	if !s.AddClientBillData || s.Step != 12 || s.TotalSteps() != 14 {
		t.Fatalf("unexpected state after yes: %+v total=%d", s, s.TotalSteps())
	}
	if s.Current().Name != StepClientPowerPrices {
		t.Fatalf("expected client power prices step, got %s", s.Current().Name)
	}

	s = mustReduce(t, s, Action{Type: ActionBack})
	if s.AddClientBillData || s.Step != 11 || s.TotalSteps() != 11 {
		t.Fatalf("unexpected state after back: add=%v step=%d total=%d", s.AddClientBillData, s.Step, s.TotalSteps())
	}
	if s.MaxStepReached != 12 {
		t.Fatalf("maxStepReached = %d, want 12", s.MaxStepReached)
	}
	if got := s.InvalidSteps(); len(got) != 0 {
		t.Fatalf("InvalidSteps = %v, want none", got)
	}
}

func TestGasClientBranchCalculate(t *testing.T) {
	s := gasAtDecision(t)
	s = reduceAll(t, s,
		Action{Type: ActionDecideClientBillData, Flag: true},
		Action{Type: ActionSetClientFixedPrice, Value: "0.20"},
		Action{Type: ActionNext},
		Action{Type: ActionSetClientGasEnergy, Value: "0.08"},
		Action{Type: ActionNext},
		Action{Type: ActionAnswerClientServices, Flag: true},
	)
	if s.Step != 12 || s.TotalSteps() != 12 {
		t.Fatalf("expected final step 12, got %d/%d", s.Step, s.TotalSteps())
	}

	_, effect, err := Reduce(s, Action{Type: ActionCalculate})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if effect != EffectNone {
		t.Fatalf("calculate must wait for the client maintenance cost")
	}

	s = mustReduce(t, s, Action{Type: ActionSetClientMaintenance, Value: "3"})
	_, effect, err = Reduce(s, Action{Type: ActionCalculate})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if effect != EffectSubmit {
		t.Fatalf("expected submit effect")
	}

	in := s.Input()
	if in.Gas == nil || in.Gas.GasTariff != "RL.2" || in.Gas.ClientFixedPrice != 0.20 || in.Gas.ClientGasEnergyPrice != 0.08 {
		t.Fatalf("unexpected gas input: %+v", in.Gas)
	}
	if in.MainMaintenance() != 4.5 || in.ClientMaintenance() != 3 {
		t.Fatalf("unexpected maintenance: main=%v client=%v", in.MainMaintenance(), in.ClientMaintenance())
	}
}

func TestIsFormValidRequiresEveryStepBeforeLast(t *testing.T) {
	s := luzAtDecision(t)
	if !s.IsFormValid() {
		t.Fatalf("expected complete draft to be valid")
	}

	broken := mustReduce(t, s, Action{Type: ActionSetNumDias, Value: "treinta"})
	if broken.IsFormValid() {
		t.Fatalf("expected invalid numDias to invalidate the form")
	}
	if got := broken.InvalidSteps(); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("InvalidSteps = %v, want [7]", got)
	}
	for n := 1; n < broken.TotalSteps(); n++ {
		if n != 7 && !broken.ValidateStep(n) {
			t.Fatalf("step %d unexpectedly invalid", n)
		}
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := luzAtDecision(t)
	snapshot := s.Clone()

	_ = mustReduce(t, s, Action{Type: ActionSetPotencia, Index: 0, Value: "9.9"})
	_ = mustReduce(t, s, Action{Type: ActionSetTariffType, Value: "6.1"})

	if !reflect.DeepEqual(s, snapshot) {
		t.Fatalf("Reduce mutated its input state")
	}
}

func TestReduceRejectsMalformedActions(t *testing.T) {
	s := luzAtDecision(t)

	if _, _, err := Reduce(s, Action{Type: "teleport"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if _, _, err := Reduce(s, Action{Type: ActionSetPotencia, Index: 5, Value: "1"}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, _, err := Reduce(s, Action{Type: ActionSetTariffType, Value: "9.9"}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestInputCastsDraftNumbers(t *testing.T) {
	in := luzAtDecision(t).Input()

	if in.ComparisonType != "luz" || in.ClientName != "Panadería Ruiz" {
		t.Fatalf("unexpected common fields: %+v", in)
	}
	if in.NumDias != 30 || in.CurrentBillAmount != 85.40 {
		t.Fatalf("unexpected numbers: dias=%v bill=%v", in.NumDias, in.CurrentBillAmount)
	}
	if in.Luz == nil || !reflect.DeepEqual(in.Luz.Potencias, []float64{4.6, 4.6}) || !reflect.DeepEqual(in.Luz.Energias, []float64{100, 50, 30}) {
		t.Fatalf("unexpected luz input: %+v", in.Luz)
	}
	if in.Luz.ClientPowerPrices != nil || in.AddClientBillData {
		t.Fatalf("client prices must be omitted without the client branch")
	}
	if in.TariffType() != "2.0" {
		t.Fatalf("TariffType = %q", in.TariffType())
	}
}

func TestViewExposesDerivedFields(t *testing.T) {
	v := luzAtDecision(t).View("abc")
	if v.ID != "abc" || v.TotalSteps != 11 || v.CurrentStep.Kind != KindDecision || !v.IsFormValid || !v.StepValid {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.InvalidSteps == nil {
		t.Fatalf("InvalidSteps should be an empty slice, not nil")
	}
}

func TestSelectSupplyOnlyOnFirstStep(t *testing.T) {
	s := luzAtDecision(t)
	s = mustReduce(t, s, Action{Type: ActionDecideClientBillData, Flag: true})

	next, _, err := Reduce(s, Action{Type: ActionSelectSupply, Value: "gas"})
	if !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
	if !reflect.DeepEqual(next, s) {
		t.Fatalf("rejected supply change modified the state")
	}
	if next.Step > next.TotalSteps() || next.Current().Name == "" {
		t.Fatalf("step %d outside %d steps", next.Step, next.TotalSteps())
	}
}

func TestChangingSupplyFromFirstStepClampsProgress(t *testing.T) {
	s := luzAtDecision(t)
	s = mustReduce(t, s, Action{Type: ActionDecideClientBillData, Flag: true})
	for s.Step > 1 {
		s = mustReduce(t, s, Action{Type: ActionBack})
	}
	if s.MaxStepReached != 12 {
		t.Fatalf("expected max step 12 before the change, got %d", s.MaxStepReached)
	}

	s = mustReduce(t, s, Action{Type: ActionSelectSupply, Value: "gas"})
	if s.Step != 2 || s.TotalSteps() != 9 || s.AddClientBillData {
		t.Fatalf("unexpected state after switching to gas: step=%d total=%d add=%v", s.Step, s.TotalSteps(), s.AddClientBillData)
	}
	if s.MaxStepReached > s.TotalSteps() {
		t.Fatalf("maxStepReached %d exceeds %d steps", s.MaxStepReached, s.TotalSteps())
	}
	for _, n := range s.InvalidSteps() {
		if n > s.TotalSteps() {
			t.Fatalf("invalid step %d outside the gas sequence", n)
		}
	}
}
