package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"
	"restoredoc/internal/usecase/interfaces"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	ErrMissingAPIKey   = errors.New("missing GEMINI_API_KEY")
	ErrNoPhotos        = errors.New("no photos provided")
	ErrEmptyResponse   = errors.New("empty model response")
	ErrInvalidResponse = errors.New("model response is not a JSON object")
)

// contentGenerator is the slice of the genai Models service the analyzer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Options struct {
	Model      string
	MaxRetries uint64
	Timeout    time.Duration
	BaseDelay  time.Duration
}

// GeminiAnalyzer asks a Gemini vision model for a structured damage assessment.
type GeminiAnalyzer struct {
	models contentGenerator
	tables rules.Tables
	opts   Options
	logger *zap.Logger
}

var _ interfaces.IVisionAnalyzer = (*GeminiAnalyzer)(nil)

func NewGeminiAnalyzer(ctx context.Context, apiKey string, tables rules.Tables, opts Options, logger *zap.Logger) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newAnalyzer(client.Models, tables, opts, logger), nil
}

func newAnalyzer(models contentGenerator, tables rules.Tables, opts Options, logger *zap.Logger) *GeminiAnalyzer {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiAnalyzer{models: models, tables: tables, opts: opts, logger: logger}
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, damageType entities.DamageType, photos []entities.Photo) (json.RawMessage, error) {
	if len(photos) == 0 {
		return nil, ErrNoPhotos
	}
	prompt, err := BuildPrompt(damageType, g.tables)
	if err != nil {
		return nil, err
	}

	parts := make([]*genai.Part, 0, len(photos)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, p := range photos {
		mime := p.MIMEType
		if mime == "" {
			mime = http.DetectContentType(p.Data)
		}
		parts = append(parts, genai.NewPartFromBytes(p.Data, mime))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.1),
	}

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	backoff := retry.WithMaxRetries(g.opts.MaxRetries, retry.NewExponential(g.opts.BaseDelay))
	attempt := 0
	out, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (json.RawMessage, error) {
		attempt++
		resp, err := g.models.GenerateContent(ctx, g.opts.Model, contents, cfg)
		if err != nil {
			g.logger.Warn("vision request failed",
				zap.String("damage_type", string(damageType)),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if isTransient(err) {
				return nil, retry.RetryableError(err)
			}
			return nil, err
		}
		raw, err := extractJSON(resp.Text())
		if err != nil {
			g.logger.Warn("vision response unusable",
				zap.String("damage_type", string(damageType)),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return nil, retry.RetryableError(err)
		}
		return raw, nil
	})
	if err != nil {
		return nil, fmt.Errorf("vision analysis failed after %d attempt(s): %w", attempt, err)
	}

	g.logger.Info("vision analysis complete",
		zap.String("damage_type", string(damageType)),
		zap.String("model", g.opts.Model),
		zap.Int("photos", len(photos)),
		zap.Int("attempts", attempt),
		zap.Int("response_bytes", len(out)))
	return out, nil
}

// isTransient reports whether the provider error is worth another attempt.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "connection reset")
}

// extractJSON returns the outermost JSON object in text, tolerating markdown
// fences or chatter around it.
func extractJSON(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	if json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return json.RawMessage(text), nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, ErrInvalidResponse
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, ErrInvalidResponse
	}
	return json.RawMessage(candidate), nil
}
