// internal/workers/infrastructure/build-result-payload/handler_test.go
package buildresultpayload

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Fixtures
// ==========================

const testOutputSchema = `{
	"type": "object",
	"required": ["requestId", "status", "results", "metadata"],
	"properties": {
		"requestId": {"type": "string"},
		"status": {"type": "string", "enum": ["success"]},
		"results": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title", "priceFrom", "priceTo", "stars", "matchScore"],
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"priceFrom": {"type": "number", "minimum": 0},
					"priceTo": {"type": "number", "minimum": 0},
					"stars": {"type": "integer", "minimum": 0, "maximum": 5},
					"matchScore": {"type": "number", "minimum": 0, "maximum": 100}
				}
			}
		},
		"metadata": {
			"type": "object",
			"required": ["timestamp", "version", "totalResults"]
		}
	}
}`

func writeTestRegistry(t *testing.T, outputSchema string) string {
	t.Helper()

	doc := `{
		"version": "1.0.0",
		"lastUpdated": "2026-08-20T12:00:00Z",
		"activities": [
			{
				"id": "act-build-result-payload",
				"displayName": "Build Result Payload",
				"category": "infrastructure",
				"taskType": "build-result-payload",
				"implementationStatus": "implemented",
				"outputSchema": ` + outputSchema + `
			}
		]
	}`

	path := filepath.Join(t.TempDir(), "activity-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func newTestHandler(t *testing.T, registryPath string) *Handler {
	t.Helper()

	config := &Config{
		Timeout:      10 * time.Second,
		RegistryPath: registryPath,
		AppVersion:   "1.0.0-test",
		CacheTTL:     5 * time.Minute,
	}
	return NewHandler(config, logger.NewTestLogger(t))
}

func rixosCard() models.TourCard {
	return models.TourCard{
		Hotel: models.Hotel{
			ID:     "rixos-premium-belek",
			Name:   "Rixos Premium Belek",
			Stars:  5,
			Rating: 4.8,
			Images: []string{"https://cdn.example.com/rixos-1.jpg", "https://cdn.example.com/rixos-2.jpg"},
		},
		PriceRange: models.PriceRange{Min: 150000, Max: 165000},
		BestPrice: models.TourOption{
			Provider: "level-travel",
			Price:    150000,
			Link:     "https://level.travel/rixos-premium-belek",
		},
		MatchScore: 87.5,
		Badges: []models.Badge{
			{Type: models.BadgeDiscount, Label: "-25%", Value: 25},
			{Type: models.BadgeHot},
		},
	}
}

// ==========================
// Payload Building Tests
// ==========================

func TestExecute_FlattensCardIntoSummary(t *testing.T) {
	handler := newTestHandler(t, writeTestRegistry(t, testOutputSchema))

	output, err := handler.Execute(context.Background(), &Input{
		RequestID: "req-42",
		TourCards: []models.TourCard{rixosCard()},
	})

	require.NoError(t, err)
	payload := output.Payload
	assert.Equal(t, "req-42", payload.RequestID)
	assert.Equal(t, "success", payload.Status)
	assert.Equal(t, 1, payload.Metadata.TotalResults)
	assert.Equal(t, "1.0.0-test", payload.Metadata.Version)
	assert.NotEmpty(t, payload.Metadata.Timestamp)

	require.Len(t, payload.Results, 1)
	summary := payload.Results[0]
	assert.Equal(t, "Rixos Premium Belek", summary.Title)
	assert.Equal(t, 150000.0, summary.PriceFrom)
	assert.Equal(t, 165000.0, summary.PriceTo)
	assert.Equal(t, 5, summary.Stars)
	assert.Equal(t, 4.8, summary.Rating)
	assert.Equal(t, 87.5, summary.MatchScore)
	assert.Equal(t, "https://level.travel/rixos-premium-belek", summary.Link)
	assert.Equal(t, "https://cdn.example.com/rixos-1.jpg", summary.Photo)
}

func TestExecute_BadgeLabelFallsBackToType(t *testing.T) {
	handler := newTestHandler(t, writeTestRegistry(t, testOutputSchema))

	output, err := handler.Execute(context.Background(), &Input{
		RequestID: "req-42",
		TourCards: []models.TourCard{rixosCard()},
	})

	require.NoError(t, err)
	require.Len(t, output.Payload.Results, 1)
	// "-25%" keeps its label; the hot badge has none and falls back to its type.
	assert.Equal(t, []string{"-25%", "hot"}, output.Payload.Results[0].Badges)
}

func TestExecute_EmptyCardsProduceEmptyResults(t *testing.T) {
	handler := newTestHandler(t, writeTestRegistry(t, testOutputSchema))

	output, err := handler.Execute(context.Background(), &Input{
		RequestID: "req-empty",
		TourCards: nil,
	})

	require.NoError(t, err)
	assert.Empty(t, output.Payload.Results)
	assert.NotNil(t, output.Payload.Results)
	assert.Equal(t, 0, output.Payload.Metadata.TotalResults)
}

func TestExecute_PayloadSerializesWithExpectedKeys(t *testing.T) {
	handler := newTestHandler(t, writeTestRegistry(t, testOutputSchema))

	output, err := handler.Execute(context.Background(), &Input{
		RequestID: "req-42",
		TourCards: []models.TourCard{rixosCard()},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	payload, ok := decoded["resultPayload"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, payload, "requestId")
	assert.Contains(t, payload, "results")
	assert.Contains(t, payload, "metadata")
}

// ==========================
// Schema Loading Tests
// ==========================

func TestExecute_MissingRegistryFile(t *testing.T) {
	handler := newTestHandler(t, filepath.Join(t.TempDir(), "does-not-exist.json"))

	_, err := handler.Execute(context.Background(), &Input{RequestID: "req-1"})

	assert.ErrorIs(t, err, ErrPayloadSchemaNotFound)
}

func TestExecute_ActivityWithoutOutputSchema(t *testing.T) {
	handler := newTestHandler(t, writeTestRegistry(t, `{}`))

	_, err := handler.Execute(context.Background(), &Input{RequestID: "req-1"})

	assert.ErrorIs(t, err, ErrPayloadSchemaNotFound)
}

func TestExecute_SchemaViolationFailsBuild(t *testing.T) {
	// A schema that caps results at zero items rejects any non-empty batch.
	strict := `{
		"type": "object",
		"properties": {
			"results": {"type": "array", "maxItems": 0}
		}
	}`
	handler := newTestHandler(t, writeTestRegistry(t, strict))

	_, err := handler.Execute(context.Background(), &Input{
		RequestID: "req-42",
		TourCards: []models.TourCard{rixosCard()},
	})

	assert.ErrorIs(t, err, ErrPayloadBuildFailed)
}

func TestExecute_SchemaIsCachedBetweenRuns(t *testing.T) {
	registryPath := writeTestRegistry(t, testOutputSchema)
	handler := newTestHandler(t, registryPath)

	_, err := handler.Execute(context.Background(), &Input{RequestID: "req-1"})
	require.NoError(t, err)

	// With the schema cached, removing the file must not break later runs.
	require.NoError(t, os.Remove(registryPath))

	_, err = handler.Execute(context.Background(), &Input{RequestID: "req-2"})
	assert.NoError(t, err)
}
