// internal/workers/tours/parse-search-criteria/handler_test.go
package parsesearchcriteria

import (
	"context"
	"testing"
	"time"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:       3 * time.Second,
		DefaultAdults: 2,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_FullCriteria(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	input := &Input{RawFilters: map[string]interface{}{
		"budget":       200000.0,
		"budgetType":   "perPerson",
		"adults":       3.0,
		"children":     1.0,
		"destination":  " Турция ",
		"requirements": []interface{}{"all_inclusive", "beach", "all_inclusive"},
		"priorities": map[string]interface{}{
			"price":     3.0,
			"beachLine": 2.0,
		},
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, models.SearchRequest{
		Budget:       200000,
		BudgetType:   models.BudgetTypePerPerson,
		Adults:       3,
		Children:     1,
		Destination:  "Турция",
		Requirements: []string{"all_inclusive", "beach"},
	}, output.SearchRequest)
	assert.Equal(t, models.PriorityWeights{"price": 3, "beachLine": 2}, output.PriorityWeights)
}

func TestExecute_Defaults(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{RawFilters: map[string]interface{}{
		"budget": 100000.0,
	}})

	assert.NoError(t, err)
	assert.Equal(t, models.BudgetTypeTotal, output.SearchRequest.BudgetType)
	assert.Equal(t, 2, output.SearchRequest.Adults)
	assert.Equal(t, 0, output.SearchRequest.Children)
	assert.Empty(t, output.PriorityWeights)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		rawFilters map[string]interface{}
	}{
		{
			name:       "missing budget",
			rawFilters: map[string]interface{}{"destination": "Египет"},
		},
		{
			name:       "zero budget",
			rawFilters: map[string]interface{}{"budget": 0.0},
		},
		{
			name:       "negative budget",
			rawFilters: map[string]interface{}{"budget": -5000.0},
		},
		{
			name:       "budget not a number",
			rawFilters: map[string]interface{}{"budget": "дорого"},
		},
		{
			name: "unknown budget type",
			rawFilters: map[string]interface{}{
				"budget":     100000.0,
				"budgetType": "perFamily",
			},
		},
		{
			name: "negative priority weight",
			rawFilters: map[string]interface{}{
				"budget":     100000.0,
				"priorities": map[string]interface{}{"price": -1.0},
			},
		},
		{
			name: "priorities not an object",
			rawFilters: map[string]interface{}{
				"budget":     100000.0,
				"priorities": "price",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), newTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{RawFilters: tt.rawFilters})

			assert.ErrorIs(t, err, ErrInvalidFilterFormat)
			assert.Nil(t, output)
		})
	}
}

func TestExecute_BudgetFromString(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{RawFilters: map[string]interface{}{
		"budget": "150000",
	}})

	assert.NoError(t, err)
	assert.Equal(t, 150000.0, output.SearchRequest.Budget)
}

func TestExecute_NilRawFilters(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.ErrorIs(t, err, ErrInvalidFilterFormat)
	assert.Nil(t, output)
}
