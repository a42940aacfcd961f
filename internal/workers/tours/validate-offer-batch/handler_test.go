// internal/workers/tours/validate-offer-batch/handler_test.go
package validateofferbatch

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
		Timeout:      5 * time.Second,
		MaxBatchSize: 100,
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

func validOffer(provider, hotel string, price float64) models.TourOffer {
	return models.TourOffer{
		Provider:    provider,
		Hotel:       hotel,
		Price:       price,
		Destination: "Турция",
	}
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_CleanBatchPassesUntouched(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))
	input := &Input{Offers: []models.TourOffer{
		validOffer("level-travel", "Rixos Premium Belek", 150000),
		validOffer("sletat", "Crystal Waterworld", 120000),
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 2, output.AcceptedCount)
	assert.Equal(t, 0, output.DroppedCount)
	assert.Equal(t, input.Offers, output.Offers)
	assert.Empty(t, output.ValidationErrors)
	assert.Empty(t, output.RejectsByProvider)
}

func TestExecute_DropsEmptyHotelName(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))
	input := &Input{Offers: []models.TourOffer{
		validOffer("level-travel", "Rixos Premium Belek", 150000),
		validOffer("travelata", "   ", 95000),
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 1, output.AcceptedCount)
	assert.Equal(t, 1, output.DroppedCount)
	assert.Equal(t, 1, output.RejectsByProvider["travelata"])
	if assert.Len(t, output.ValidationErrors, 1) {
		assert.Equal(t, "hotel", output.ValidationErrors[0].Field)
		assert.Equal(t, 1, output.ValidationErrors[0].OfferIndex)
	}
}

func TestExecute_DropsNonPositivePrice(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))
	input := &Input{Offers: []models.TourOffer{
		validOffer("sletat", "Crystal Waterworld", 0),
		validOffer("sletat", "Delphin Imperial", -500),
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 0, output.AcceptedCount)
	assert.Equal(t, 2, output.DroppedCount)
	assert.Equal(t, 2, output.RejectsByProvider["sletat"])
	for _, verr := range output.ValidationErrors {
		assert.Equal(t, "price", verr.Field)
	}
}

func TestExecute_SchemaRejectsOutOfRangeFields(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))
	stars := 9
	rating := 7.5
	input := &Input{Offers: []models.TourOffer{
		{Provider: "travelata", Hotel: "Rixos Premium Belek", Price: 150000, Stars: &stars},
		{Provider: "level-travel", Hotel: "Crystal Waterworld", Price: 120000, Rating: &rating},
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 0, output.AcceptedCount)
	assert.Equal(t, 2, output.DroppedCount)
	assert.Equal(t, 1, output.RejectsByProvider["travelata"])
	assert.Equal(t, 1, output.RejectsByProvider["level-travel"])
	assert.NotEmpty(t, output.ValidationErrors)
}

func TestExecute_MixedBatchKeepsSurvivorOrder(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))
	input := &Input{Offers: []models.TourOffer{
		validOffer("level-travel", "Rixos Premium Belek", 150000),
		validOffer("travelata", "", 90000),
		validOffer("sletat", "Crystal Waterworld", 120000),
		validOffer("travelata", "Delphin Imperial", 0),
		validOffer("level-travel", "Titanic Deluxe", 175000),
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 3, output.AcceptedCount)
	assert.Equal(t, 2, output.DroppedCount)
	if assert.Len(t, output.Offers, 3) {
		assert.Equal(t, "Rixos Premium Belek", output.Offers[0].Hotel)
		assert.Equal(t, "Crystal Waterworld", output.Offers[1].Hotel)
		assert.Equal(t, "Titanic Deluxe", output.Offers[2].Hotel)
	}
	assert.Equal(t, 2, output.RejectsByProvider["travelata"])
}

func TestExecute_EmptyBatch(t *testing.T) {
	handler := NewHandler(createTestConfig(), newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.AcceptedCount)
	assert.Equal(t, 0, output.DroppedCount)
	assert.Empty(t, output.Offers)
}

func TestExecute_BatchTooLarge(t *testing.T) {
	cfg := createTestConfig()
	cfg.MaxBatchSize = 1
	handler := NewHandler(cfg, newTestLogger(t))
	input := &Input{Offers: []models.TourOffer{
		validOffer("level-travel", "Rixos Premium Belek", 150000),
		validOffer("sletat", "Crystal Waterworld", 120000),
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Nil(t, output)
}

func TestExecute_FailOnAllDrop(t *testing.T) {
	cfg := createTestConfig()
	cfg.FailOnAllDrop = true
	handler := NewHandler(cfg, newTestLogger(t))
	input := &Input{Offers: []models.TourOffer{
		validOffer("sletat", "", 0),
	}}

	output, err := handler.Execute(context.Background(), input)

	assert.ErrorIs(t, err, ErrOfferValidationFailed)
	assert.Nil(t, output)
}
