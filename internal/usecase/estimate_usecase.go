package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"restoredoc/internal/domain/adjuster"
	"restoredoc/internal/domain/categorizer"
	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"
	"restoredoc/internal/domain/validator"
	"restoredoc/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=estimate_usecase.go -destination=../adapter/http/handlers/mocks/estimate_usecase_mock.go -package=mocks

var (
	ErrEstimateNotFound        = errors.New("estimate not found")
	ErrInvalidEstimateID       = errors.New("invalid estimate id")
	ErrInvalidEstimate         = errors.New("invalid estimate")
	ErrInvalidAdjustment       = errors.New("invalid adjustment")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrEstimateNotCurrent      = errors.New("estimate is not the current version")
	ErrEstimateLocked          = errors.New("approved estimates cannot be re-priced")
)

// AdjustmentInput is one contractor re-pricing request. Zero multipliers mean
// "unchanged"; presets are looked up in the region's pricing tables.
type AdjustmentInput struct {
	LaborMultiplier     float64
	DaysMultiplier      float64
	MaterialsMultiplier float64

	// LaborRate names a labor rate preset (standard, emergency, after_hours).
	// Labor is re-priced from the estimate's current rate, so repeating the
	// same preset changes nothing.
	LaborRate string
	// EquipmentDays is the new rental duration; the current one comes from
	// the assessment and is replaced by it.
	EquipmentDays int

	MarkupPercent *float64
	MarkupPreset  string
}

// IEstimateUseCase exposes estimate versioning and the customer lifecycle.
//
// Every save or adjustment stores a new version of the job's estimate and
// makes it the current one; earlier versions stay readable.
type IEstimateUseCase interface {
	Validate(ctx context.Context, e entities.Estimate) (entities.Estimate, error)
	Preview(ctx context.Context, e entities.Estimate, in AdjustmentInput) (entities.Estimate, error)
	SaveEstimate(ctx context.Context, jobID string, e entities.Estimate) (entities.Estimate, error)
	AdjustEstimate(ctx context.Context, id string, in AdjustmentInput) (entities.Estimate, error)
	GetByID(ctx context.Context, id string) (entities.Estimate, error)
	GetCurrentByJobID(ctx context.Context, jobID string) (entities.Estimate, error)
	ListByJobID(ctx context.Context, jobID string) ([]entities.Estimate, error)
	Send(ctx context.Context, id string) (entities.Estimate, error)
	Approve(ctx context.Context, id string) (entities.Estimate, error)
	Reject(ctx context.Context, id string) (entities.Estimate, error)
	Describe(e entities.Estimate) string
}

type EstimateUseCase struct {
	repo        interfaces.IEstimateRepository
	jobRepo     interfaces.IJobRepository
	tables      rules.Tables
	validator   *validator.Validator
	categorizer *categorizer.Categorizer
	logger      *zap.Logger
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IEstimateRepository, jobRepo interfaces.IJobRepository, tables rules.Tables, logger *zap.Logger) *EstimateUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstimateUseCase{
		repo:        repo,
		jobRepo:     jobRepo,
		tables:      tables,
		validator:   validator.New(tables),
		categorizer: categorizer.New(),
		logger:      logger,
	}
}

// Validate runs floor pricing and disclosures on an unsaved estimate.
func (u *EstimateUseCase) Validate(_ context.Context, e entities.Estimate) (entities.Estimate, error) {
	if !e.DamageType.Valid() {
		return entities.Estimate{}, ErrInvalidDamageType
	}
	return u.prepare(e)
}

// Preview re-prices an unsaved estimate without touching storage.
func (u *EstimateUseCase) Preview(_ context.Context, e entities.Estimate, in AdjustmentInput) (entities.Estimate, error) {
	if !e.DamageType.Valid() {
		return entities.Estimate{}, ErrInvalidDamageType
	}
	if err := entities.ValidateLineItems(e.LineItems); err != nil {
		return entities.Estimate{}, fmt.Errorf("%w: %w", ErrInvalidEstimate, err)
	}
	return u.reprice(e, in)
}

func (u *EstimateUseCase) SaveEstimate(ctx context.Context, jobID string, e entities.Estimate) (entities.Estimate, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return entities.Estimate{}, ErrInvalidJobID
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return entities.Estimate{}, err
	}
	if job.ID == "" {
		return entities.Estimate{}, ErrJobNotFound
	}
	if e.DamageType == "" {
		e.DamageType = job.DamageType
	}
	if !e.DamageType.Valid() {
		return entities.Estimate{}, ErrInvalidDamageType
	}

	prepared, err := u.prepare(e)
	if err != nil {
		return entities.Estimate{}, err
	}
	prepared.Adjustment = nil
	return u.storeVersion(ctx, jobID, prepared)
}

func (u *EstimateUseCase) AdjustEstimate(ctx context.Context, id string, in AdjustmentInput) (entities.Estimate, error) {
	base, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if base.Status == entities.EstimateStatusApproved {
		return entities.Estimate{}, ErrEstimateLocked
	}

	adjusted, err := u.reprice(base, in)
	if err != nil {
		return entities.Estimate{}, err
	}
	created, err := u.storeVersion(ctx, base.JobID, adjusted)
	if err != nil {
		return entities.Estimate{}, err
	}
	u.logger.Info("estimate adjusted",
		zap.String("from_estimate_id", base.ID),
		zap.String("estimate_id", created.ID),
		zap.Float64("original_total", base.TotalEstimate),
		zap.Float64("adjusted_total", created.TotalEstimate))
	return created, nil
}

func (u *EstimateUseCase) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Estimate{}, ErrInvalidEstimateID
	}

	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if e.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return e, nil
}

func (u *EstimateUseCase) ListByJobID(ctx context.Context, jobID string) ([]entities.Estimate, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, ErrInvalidJobID
	}
	return u.repo.ListByJobID(ctx, jobID)
}

// GetCurrentByJobID returns the highest current version. Two current versions
// can only coexist after an interrupted save; the newer one wins.
func (u *EstimateUseCase) GetCurrentByJobID(ctx context.Context, jobID string) (entities.Estimate, error) {
	list, err := u.ListByJobID(ctx, jobID)
	if err != nil {
		return entities.Estimate{}, err
	}
	var current entities.Estimate
	for _, e := range list {
		if e.IsCurrent && e.Version > current.Version {
			current = e
		}
	}
	if current.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	return current, nil
}

func (u *EstimateUseCase) Send(ctx context.Context, id string) (entities.Estimate, error) {
	return u.transition(ctx, id, entities.EstimateStatusSent)
}

func (u *EstimateUseCase) Approve(ctx context.Context, id string) (entities.Estimate, error) {
	return u.transition(ctx, id, entities.EstimateStatusApproved)
}

func (u *EstimateUseCase) Reject(ctx context.Context, id string) (entities.Estimate, error) {
	return u.transition(ctx, id, entities.EstimateStatusRejected)
}

func (u *EstimateUseCase) Describe(e entities.Estimate) string {
	return u.validator.Describe(e)
}

func (u *EstimateUseCase) transition(ctx context.Context, id string, next entities.EstimateStatus) (entities.Estimate, error) {
	e, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Estimate{}, err
	}
	if !e.IsCurrent {
		return entities.Estimate{}, ErrEstimateNotCurrent
	}
	if !e.Status.CanTransitionTo(next) {
		return entities.Estimate{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, e.Status, next)
	}

	updated, err := u.repo.UpdateStatusByID(ctx, e.ID, next)
	if err != nil {
		return entities.Estimate{}, err
	}
	if updated.ID == "" {
		return entities.Estimate{}, ErrEstimateNotFound
	}
	u.logger.Info("estimate status changed",
		zap.String("estimate_id", updated.ID),
		zap.String("from", string(e.Status)),
		zap.String("to", string(next)))
	return updated, nil
}

// prepare categorizes, prices and validates e. The total never drops below
// what the caller supplied: a model-proposed total is kept when it exceeds
// subtotal plus markup.
func (u *EstimateUseCase) prepare(e entities.Estimate) (entities.Estimate, error) {
	if err := entities.ValidateLineItems(e.LineItems); err != nil {
		return entities.Estimate{}, fmt.Errorf("%w: %w", ErrInvalidEstimate, err)
	}
	out := e.Clone()
	out.LineItems = u.categorizer.Categorize(out.LineItems)

	proposed := out.TotalEstimate
	out.ApplyMarkup(u.markupPercent(out.MarkupPercent))
	out.TotalEstimate = math.Max(out.TotalEstimate, entities.Round2(proposed))

	validated, err := u.validator.Validate(out)
	if err != nil {
		return entities.Estimate{}, fmt.Errorf("%w: %w", ErrInvalidClassification, err)
	}
	return validated, nil
}

// reprice runs the adjuster over e and rebuilds the totals from the new line
// items, then re-applies floors so an adjustment can never price below them.
func (u *EstimateUseCase) reprice(e entities.Estimate, in AdjustmentInput) (entities.Estimate, error) {
	ad := adjuster.New(u.categorizer)
	if in.LaborMultiplier != 0 {
		ad.SetLaborMultiplier(in.LaborMultiplier)
	}
	if in.DaysMultiplier != 0 {
		ad.SetDaysMultiplier(in.DaysMultiplier)
	}
	if in.MaterialsMultiplier != 0 {
		ad.SetMaterialsMultiplier(in.MaterialsMultiplier)
	}
	if in.LaborRate != "" {
		to, ok := u.tables.LaborRate(in.LaborRate)
		if !ok {
			return entities.Estimate{}, fmt.Errorf("%w: unknown labor rate %q", ErrInvalidAdjustment, in.LaborRate)
		}
		current := e.LaborRate
		if current == "" {
			current = rules.LaborRateStandard
		}
		from, ok := u.tables.LaborRate(current)
		if !ok {
			return entities.Estimate{}, fmt.Errorf("%w: estimate priced at unknown labor rate %q", ErrInvalidAdjustment, current)
		}
		ad.SetLaborRate(from, to)
	}
	if in.EquipmentDays != 0 {
		if in.EquipmentDays < 0 || currentEquipmentDays(e) <= 0 {
			return entities.Estimate{}, fmt.Errorf("%w: equipment days need a known current duration", ErrInvalidAdjustment)
		}
		ad.SetEquipmentDays(currentEquipmentDays(e), in.EquipmentDays)
	}

	percent := e.MarkupPercent
	switch {
	case in.MarkupPreset != "":
		p, ok := u.tables.MarkupPreset(in.MarkupPreset)
		if !ok {
			return entities.Estimate{}, fmt.Errorf("%w: unknown markup preset %q", ErrInvalidAdjustment, in.MarkupPreset)
		}
		percent = p
	case in.MarkupPercent != nil:
		percent = *in.MarkupPercent
	}
	res := ad.Adjust(e.LineItems)
	out := e.Clone()
	out.LineItems = res.Items
	summary := res.Summary
	out.Adjustment = &summary
	if in.LaborRate != "" {
		out.LaborRate = strings.ToLower(strings.TrimSpace(in.LaborRate))
	}
	if in.EquipmentDays != 0 {
		out.Assessment.Equipment.Days = in.EquipmentDays
	}
	out.ApplyMarkup(u.markupPercent(percent))

	validated, err := u.validator.Validate(out)
	if err != nil {
		return entities.Estimate{}, fmt.Errorf("%w: %w", ErrInvalidClassification, err)
	}
	return validated, nil
}

// currentEquipmentDays is the rental duration the line items are priced for.
func currentEquipmentDays(e entities.Estimate) int {
	if d := e.Assessment.Equipment.Days; d > 0 {
		return d
	}
	return e.Assessment.EstimatedDays
}

// markupPercent clamps p into the adjuster bounds and the region's ceiling.
func (u *EstimateUseCase) markupPercent(p float64) float64 {
	p = adjuster.ApplyMarkup(0, p).Percent
	if ceiling := u.tables.Pricing.MaxMarkup; ceiling > 0 && p > ceiling {
		p = ceiling
	}
	return p
}

// storeVersion persists e as the next version of jobID and retires the
// previous current version. The new row is written first so a job never
// loses its current estimate.
func (u *EstimateUseCase) storeVersion(ctx context.Context, jobID string, e entities.Estimate) (entities.Estimate, error) {
	existing, err := u.repo.ListByJobID(ctx, jobID)
	if err != nil {
		return entities.Estimate{}, err
	}
	version := 0
	for _, prev := range existing {
		if prev.Version > version {
			version = prev.Version
		}
	}

	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.JobID = jobID
	e.Version = version + 1
	e.IsCurrent = true
	e.Status = entities.EstimateStatusDraft
	e.CreatedAt, e.UpdatedAt = now, now

	created, err := u.repo.Create(ctx, e)
	if err != nil {
		u.logger.Error("estimate create failed", zap.String("job_id", jobID), zap.Int("version", e.Version), zap.Error(err))
		return entities.Estimate{}, err
	}

	for _, prev := range existing {
		if !prev.IsCurrent {
			continue
		}
		if _, err := u.repo.SetCurrent(ctx, prev.ID, false); err != nil {
			u.logger.Error("estimate retire failed", zap.String("estimate_id", prev.ID), zap.Error(err))
			return entities.Estimate{}, err
		}
	}

	u.logger.Info("estimate version stored",
		zap.String("job_id", jobID),
		zap.String("estimate_id", created.ID),
		zap.Int("version", created.Version),
		zap.Float64("total_estimate", created.TotalEstimate))
	return created, nil
}
