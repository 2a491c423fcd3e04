package interfaces

import (
	"context"
	"encoding/json"
	"restoredoc/internal/domain/entities"
)

//go:generate mockgen -source=vision_analyzer_interface.go -destination=mocks/vision_analyzer_mock.go -package=mock_interfaces

// IVisionAnalyzer sends damage photos to a vision-capable model and returns
// its raw JSON assessment. The caller owns decoding and validation.
type IVisionAnalyzer interface {
	Analyze(ctx context.Context, damageType entities.DamageType, photos []entities.Photo) (json.RawMessage, error)
}
