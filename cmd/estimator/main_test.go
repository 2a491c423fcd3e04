package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"restoredoc/internal/domain/equipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waterAssessment = `{
  "damageType": "water",
  "category": 1,
  "class": 2,
  "lineItems": [
    {"description": "Water extraction labor", "quantity": 10, "unit": "hours", "unitPrice": 85},
    {"description": "Dehumidifier rental", "quantity": 3, "unit": "days", "unitPrice": 75}
  ]
}`

const moldAssessment = `{
  "damageType": "mold",
  "condition": "3",
  "lineItems": [
    {"description": "Containment setup", "quantity": 1, "unit": "each", "unitPrice": 500}
  ]
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	return body, nil
}

func TestValidateCmd(t *testing.T) {
	t.Run("condition 3 floor", func(t *testing.T) {
		body, err := run(t, "validate", writeFile(t, "mold.json", moldAssessment))
		require.NoError(t, err)
		assert.Equal(t, float64(2500), body["total_estimate"])
		assert.Contains(t, body["compliance_notes"], "Minimum charge applied for Condition 3 remediation")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "validate", filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})

	t.Run("unknown damage type", func(t *testing.T) {
		_, err := run(t, "validate", writeFile(t, "hail.json", `{"damageType":"hail","lineItems":[]}`))
		require.Error(t, err)
	})

	t.Run("requires a file", func(t *testing.T) {
		_, err := run(t, "validate")
		require.Error(t, err)
	})
}

func TestAdjustCmd(t *testing.T) {
	path := writeFile(t, "water.json", waterAssessment)

	t.Run("labor multiplier and markup", func(t *testing.T) {
		body, err := run(t, "adjust", path, "--labor", "1.5", "--markup", "10")
		require.NoError(t, err)
		assert.Equal(t, float64(1500), body["subtotal"])
		assert.Equal(t, float64(1650), body["total_estimate"])

		adj, ok := body["adjustment"].(map[string]any)
		require.True(t, ok, "adjustment summary expected")
		assert.Equal(t, float64(1075), adj["original_total"])
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := run(t, "adjust", path, "--markup-preset", "vip")
		require.Error(t, err)
	})
}

func TestEquipmentCmd(t *testing.T) {
	body, err := run(t, "equipment", "--cubic-feet", "6000", "--height", "8", "--level", "3", "--perimeter", "40", "--days", "3")
	require.NoError(t, err)
	assert.Equal(t, float64(2), body["air_scrubbers"])
	assert.Equal(t, float64(1650), body["rental_cost"])

	_, err = run(t, "equipment", "--length", "10", "--width", "10")
	require.Error(t, err, "height is required")

	_, err = run(t, "equipment", "--length=-10", "--width=-10", "--height", "8", "--perimeter", "40")
	require.ErrorIs(t, err, equipment.ErrInvalidGeometry)

	_, err = run(t, "equipment", "--length", "20", "--width", "15", "--height", "8", "--perimeter=-25")
	require.ErrorIs(t, err, equipment.ErrInvalidGeometry)
}

func TestRulesFlag(t *testing.T) {
	_, err := run(t, "--rules", filepath.Join(t.TempDir(), "missing.yaml"), "equipment", "--cubic-feet", "100", "--height", "8")
	require.Error(t, err)
}
