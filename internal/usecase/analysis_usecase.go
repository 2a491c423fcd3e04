package usecase

import (
	"context"
	"errors"
	"fmt"

	"restoredoc/internal/domain/assessment"
	"restoredoc/internal/domain/categorizer"
	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/validator"
	"restoredoc/internal/usecase/interfaces"

	"go.uber.org/zap"
)

const maxPhotos = 10

//go:generate mockgen -source=analysis_usecase.go -destination=../adapter/http/handlers/mocks/analysis_usecase_mock.go -package=mocks

var (
	ErrNoPhotos              = errors.New("at least one photo is required")
	ErrTooManyPhotos         = errors.New("too many photos")
	ErrVisionNotConfigured   = errors.New("vision analyzer not configured")
	ErrVisionFailed          = errors.New("vision analysis failed")
	ErrMalformedAssessment   = errors.New("malformed assessment")
	ErrInvalidClassification = errors.New("invalid classification")
)

// IAnalysisUseCase turns damage photos into a validated draft estimate.
// The draft is not persisted; callers save it against a job explicitly.
type IAnalysisUseCase interface {
	Analyze(ctx context.Context, damageType string, photos []entities.Photo) (entities.Estimate, error)
}

type AnalysisUseCase struct {
	vision      interfaces.IVisionAnalyzer
	validator   *validator.Validator
	categorizer *categorizer.Categorizer
	logger      *zap.Logger
}

var _ IAnalysisUseCase = (*AnalysisUseCase)(nil)

func NewAnalysisUseCase(vision interfaces.IVisionAnalyzer, v *validator.Validator, c *categorizer.Categorizer, logger *zap.Logger) *AnalysisUseCase {
	if c == nil {
		c = categorizer.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisUseCase{vision: vision, validator: v, categorizer: c, logger: logger}
}

func (u *AnalysisUseCase) Analyze(ctx context.Context, damageType string, photos []entities.Photo) (entities.Estimate, error) {
	d := entities.ParseDamageType(damageType)
	if d == "" {
		return entities.Estimate{}, ErrInvalidDamageType
	}
	if len(photos) == 0 {
		return entities.Estimate{}, ErrNoPhotos
	}
	if len(photos) > maxPhotos {
		return entities.Estimate{}, ErrTooManyPhotos
	}
	if u.vision == nil {
		return entities.Estimate{}, ErrVisionNotConfigured
	}

	u.logger.Info("analysis start", zap.String("damage_type", string(d)), zap.Int("photos", len(photos)))
	raw, err := u.vision.Analyze(ctx, d, photos)
	if err != nil {
		u.logger.Error("vision analyzer failed", zap.String("damage_type", string(d)), zap.Error(err))
		return entities.Estimate{}, fmt.Errorf("%w: %w", ErrVisionFailed, err)
	}

	draft, err := assessment.Decode(raw, d)
	if err != nil {
		u.logger.Warn("assessment decode failed", zap.String("damage_type", string(d)), zap.Error(err))
		return entities.Estimate{}, fmt.Errorf("%w: %w", ErrMalformedAssessment, err)
	}
	return u.finish(draft)
}

// finish categorizes and validates a decoded draft.
func (u *AnalysisUseCase) finish(draft entities.Estimate) (entities.Estimate, error) {
	draft.LineItems = u.categorizer.Categorize(draft.LineItems)
	draft.Subtotal = draft.LineItemsTotal()

	validated, err := u.validator.Validate(draft)
	if err != nil {
		return entities.Estimate{}, fmt.Errorf("%w: %w", ErrInvalidClassification, err)
	}
	u.logger.Info("analysis complete",
		zap.String("damage_type", string(validated.DamageType)),
		zap.Int("line_items", len(validated.LineItems)),
		zap.Float64("total_estimate", validated.TotalEstimate),
		zap.Int("health_warnings", len(validated.HealthWarnings)),
		zap.Int("compliance_notes", len(validated.ComplianceNotes)))
	return validated, nil
}
