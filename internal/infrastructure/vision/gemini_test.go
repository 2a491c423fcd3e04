package vision

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/domain/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	calls     int
	model     string
	contents  []*genai.Content
	config    *genai.GenerateContentConfig
	responses []string
	errs      []error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	f.model, f.contents, f.config = model, contents, config
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	text := ""
	if i < len(f.responses) {
		text = f.responses[i]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}, nil
}

func testAnalyzer(f *fakeModels, retries uint64) *GeminiAnalyzer {
	return newAnalyzer(f, rules.YorkPA(), Options{MaxRetries: retries, BaseDelay: time.Millisecond}, nil)
}

var photo = entities.Photo{Name: "a.jpg", MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}

func TestAnalyze(t *testing.T) {
	t.Run("sends prompt and photos", func(t *testing.T) {
		f := &fakeModels{responses: []string{`{"damageType":"mold","condition":3}`}}
		out, err := testAnalyzer(f, 2).Analyze(context.Background(), entities.DamageTypeMold, []entities.Photo{photo, photo})
		require.NoError(t, err)
		assert.JSONEq(t, `{"damageType":"mold","condition":3}`, string(out))

		assert.Equal(t, 1, f.calls)
		assert.Equal(t, "gemini-2.5-flash", f.model)
		require.Len(t, f.contents, 1)
		parts := f.contents[0].Parts
		require.Len(t, parts, 3)
		assert.Contains(t, parts[0].Text, "S520")
		require.NotNil(t, parts[1].InlineData)
		assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
		assert.Equal(t, "application/json", f.config.ResponseMIMEType)
	})

	t.Run("no photos", func(t *testing.T) {
		f := &fakeModels{}
		_, err := testAnalyzer(f, 2).Analyze(context.Background(), entities.DamageTypeWater, nil)
		assert.ErrorIs(t, err, ErrNoPhotos)
		assert.Equal(t, 0, f.calls)
	})

	t.Run("unknown damage type", func(t *testing.T) {
		f := &fakeModels{}
		_, err := testAnalyzer(f, 2).Analyze(context.Background(), "flood", []entities.Photo{photo})
		assert.Error(t, err)
		assert.Equal(t, 0, f.calls)
	})

	t.Run("retries transient provider errors", func(t *testing.T) {
		f := &fakeModels{
			errs:      []error{genai.APIError{Code: http.StatusServiceUnavailable}, nil},
			responses: []string{"", `{"damageType":"water"}`},
		}
		out, err := testAnalyzer(f, 3).Analyze(context.Background(), entities.DamageTypeWater, []entities.Photo{photo})
		require.NoError(t, err)
		assert.Equal(t, 2, f.calls)
		assert.JSONEq(t, `{"damageType":"water"}`, string(out))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		f := &fakeModels{errs: []error{genai.APIError{Code: http.StatusBadRequest}}}
		_, err := testAnalyzer(f, 3).Analyze(context.Background(), entities.DamageTypeFire, []entities.Photo{photo})
		require.Error(t, err)
		assert.Equal(t, 1, f.calls)
		var apiErr genai.APIError
		assert.True(t, errors.As(err, &apiErr))
	})

	t.Run("gives up on unusable text", func(t *testing.T) {
		f := &fakeModels{responses: []string{"sorry", "still no", "nope"}}
		_, err := testAnalyzer(f, 2).Analyze(context.Background(), entities.DamageTypeFire, []entities.Photo{photo})
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.Equal(t, 3, f.calls)
	})
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "chatter", in: `Here you go: {"a":{"b":2}} thanks`, want: `{"a":{"b":2}}`},
		{name: "empty", in: "  ", err: ErrEmptyResponse},
		{name: "no object", in: "[1,2]", err: ErrInvalidResponse},
		{name: "broken", in: `{"a":`, err: ErrInvalidResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSON(tc.in)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	tables := rules.YorkPA()

	water, err := BuildPrompt(entities.DamageTypeWater, tables)
	require.NoError(t, err)
	assert.Contains(t, water, "Category 3 (Black water): $7.00-9.50/sq ft")

	fire, err := BuildPrompt(entities.DamageTypeFire, tables)
	require.NoError(t, err)
	assert.Less(t, strings.Index(fire, "light:"), strings.Index(fire, "structural:"))

	mold, err := BuildPrompt(entities.DamageTypeMold, tables)
	require.NoError(t, err)
	assert.Contains(t, mold, "Level 5: 12 ACH")

	_, err = BuildPrompt("smoke", tables)
	assert.Error(t, err)
}
