package comparison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/comparativas/internal/catalog"
	"github.com/Simplici0/comparativas/internal/handoff"
	"github.com/Simplici0/comparativas/internal/pricing"
	"github.com/Simplici0/comparativas/internal/regulated"
)

var (
	// ErrReloadFailed marks a submit whose record was created but whose recent
	// list could not be reloaded afterwards.
	ErrReloadFailed = errors.New("reload recent comparisons")
	// ErrHandoffFailed marks a submit whose record was created but whose input
	// could not be stored for the results page.
	ErrHandoffFailed = errors.New("hand off comparison")
)

// Saved reports whether a Submit error still left the record created. The
// caller must not retry the submit in that case.
func Saved(err error) bool {
	return err == nil || errors.Is(err, ErrReloadFailed) || errors.Is(err, ErrHandoffFailed)
}

// Catalog supplies the tariffs a comparison can be priced against.
type Catalog interface {
	Candidates(ctx context.Context, supply, tariffType string) ([]catalog.Tariff, error)
}

// Service runs the submit and results flows of a comparison.
type Service struct {
	store       Store
	tariffs     Catalog
	handoffs    handoff.Store
	constants   regulated.Constants
	recentLimit int
}

// NewService wires the comparison flows. tariffs may be nil, in which case
// results always fall back to the quick estimate.
func NewService(store Store, tariffs Catalog, handoffs handoff.Store, constants regulated.Constants, recentLimit int) *Service {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Service{
		store:       store,
		tariffs:     tariffs,
		handoffs:    handoffs,
		constants:   constants,
		recentLimit: recentLimit,
	}
}

// SubmitResult is the outcome of a submit that created its record.
type SubmitResult struct {
	Record Record   `json:"record"`
	Recent []Record `json:"recent"`
}

// Submit persists a finished wizard. The recent list is reloaded only once the
// create call has returned.
func (s *Service) Submit(ctx context.Context, in Input) (SubmitResult, error) {
	estimate := QuickEstimate(in)
	rec := NewRecord{
		UUID:               uuid.NewString(),
		ClientName:         in.ClientName,
		ComparisonType:     in.ComparisonType,
		CustomerType:       in.CustomerType,
		TariffType:         in.TariffType(),
		CalculatedOldPrice: pricing.RoundMoney(estimate.OldPrice),
		CalculatedNewPrice: pricing.RoundMoney(estimate.NewPrice),
		Input:              in,
	}

	created, err := s.store.Create(ctx, rec)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create comparison: %w", err)
	}
	if created.UUID == "" {
		created.UUID = rec.UUID
	}

	result := SubmitResult{Record: created}
	var partial []error

	payload, err := json.Marshal(in)
	if err == nil {
		err = s.handoffs.Set(ctx, created.UUID, string(payload))
	}
	if err != nil {
		partial = append(partial, fmt.Errorf("%w %s: %w", ErrHandoffFailed, created.UUID, err))
	}

	recent, err := s.store.Recent(ctx, s.recentLimit)
	if err != nil {
		partial = append(partial, fmt.Errorf("%w: %w", ErrReloadFailed, err))
	}
	result.Recent = recent
	return result, errors.Join(partial...)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent comparisons: %w", err)
	}
	return records, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comparison %d: %w", id, err)
	}
	return nil
}

// exportLookupLimit is how far back Find searches the recent list.
const exportLookupLimit = 100

// Find returns a recent record by id. Stores only expose the recent list, so
// older records are reported as not found.
func (s *Service) Find(ctx context.Context, id int64) (Record, error) {
	records, err := s.store.Recent(ctx, exportLookupLimit)
	if err != nil {
		return Record{}, fmt.Errorf("list recent comparisons: %w", err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

// QuickEstimate applies the heuristic estimator that fills the stored
// old/new prices.
func QuickEstimate(in Input) pricing.Estimate {
	switch {
	case in.Luz != nil:
		return pricing.QuickEstimateElectricity(in.Luz.Potencias, in.Luz.Energias, in.NumDias)
	case in.Gas != nil:
		return pricing.QuickEstimateGas(in.Gas.GasEnergy)
	default:
		return pricing.Estimate{}
	}
}
