// internal/workers/tours/check-price-drops/handler_test.go
package checkpricedrops

import (
	"context"
	"errors"
	"testing"
	"time"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		MinDropPercent: 10,
		SnapshotTTL:    time.Hour,
	}
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func card(hotelID, name string, bestPrice float64) models.TourCard {
	return models.TourCard{
		Hotel: models.Hotel{ID: hotelID, Name: name},
		BestPrice: models.TourOption{
			Provider: "level-travel",
			Price:    bestPrice,
			Link:     "https://level.travel/" + hotelID,
		},
	}
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_FirstSightingStoresSnapshot(t *testing.T) {
	mr, rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	input := &Input{
		SubscriptionID: "sub-42",
		TourCards:      []models.TourCard{card("rixos-premium-belek", "Rixos Premium Belek", 150000)},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 1, output.CheckedCount)
	assert.Equal(t, 0, output.AlertCount)
	assert.Empty(t, output.Alerts)

	stored, err := mr.Get("pricewatch:sub-42:rixos-premium-belek")
	assert.NoError(t, err)
	assert.Equal(t, "150000", stored)
	assert.Greater(t, mr.TTL("pricewatch:sub-42:rixos-premium-belek"), time.Duration(0))
}

func TestExecute_DropAboveThresholdAlerts(t *testing.T) {
	mr, rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	mr.Set("pricewatch:sub-42:rixos-premium-belek", "200000")

	input := &Input{
		SubscriptionID: "sub-42",
		TourCards:      []models.TourCard{card("rixos-premium-belek", "Rixos Premium Belek", 150000)},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	if assert.Len(t, output.Alerts, 1) {
		alert := output.Alerts[0]
		assert.Equal(t, "rixos-premium-belek", alert.HotelID)
		assert.Equal(t, "Rixos Premium Belek", alert.HotelName)
		assert.Equal(t, 200000.0, alert.PreviousPrice)
		assert.Equal(t, 150000.0, alert.CurrentPrice)
		assert.InDelta(t, 25.0, alert.DropPercent, 0.001)
		assert.Equal(t, "level-travel", alert.Provider)
	}

	stored, _ := mr.Get("pricewatch:sub-42:rixos-premium-belek")
	assert.Equal(t, "150000", stored, "snapshot refreshed to the new best price")
}

func TestExecute_DropBelowThresholdStaysQuiet(t *testing.T) {
	mr, rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	mr.Set("pricewatch:sub-42:crystal-waterworld", "100000")

	input := &Input{
		SubscriptionID: "sub-42",
		TourCards:      []models.TourCard{card("crystal-waterworld", "Crystal Waterworld", 95000)},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Empty(t, output.Alerts)

	stored, _ := mr.Get("pricewatch:sub-42:crystal-waterworld")
	assert.Equal(t, "95000", stored)
}

func TestExecute_PriceIncreaseOnlyRefreshesSnapshot(t *testing.T) {
	mr, rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	mr.Set("pricewatch:sub-42:crystal-waterworld", "100000")

	input := &Input{
		SubscriptionID: "sub-42",
		TourCards:      []models.TourCard{card("crystal-waterworld", "Crystal Waterworld", 120000)},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Empty(t, output.Alerts)

	stored, _ := mr.Get("pricewatch:sub-42:crystal-waterworld")
	assert.Equal(t, "120000", stored)
}

func TestExecute_UnreadableSnapshotReplaced(t *testing.T) {
	mr, rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	mr.Set("pricewatch:sub-42:rixos-premium-belek", "not-a-price")

	input := &Input{
		SubscriptionID: "sub-42",
		TourCards:      []models.TourCard{card("rixos-premium-belek", "Rixos Premium Belek", 150000)},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Empty(t, output.Alerts)

	stored, _ := mr.Get("pricewatch:sub-42:rixos-premium-belek")
	assert.Equal(t, "150000", stored)
}

func TestExecute_SkipsCardsWithoutIdentityOrPrice(t *testing.T) {
	_, rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	input := &Input{
		SubscriptionID: "sub-42",
		TourCards: []models.TourCard{
			card("", "Nameless", 90000),
			card("free-stay", "Free Stay", 0),
			card("rixos-premium-belek", "Rixos Premium Belek", 150000),
		},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 1, output.CheckedCount)
}

func TestExecute_MissingSubscriptionID(t *testing.T) {
	_, rdb := setupRedis(t)
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		TourCards: []models.TourCard{card("rixos-premium-belek", "Rixos Premium Belek", 150000)},
	})

	assert.ErrorIs(t, err, ErrMissingSubscriptionID)
	assert.Nil(t, output)
}

func TestExecute_RedisReadFailureIsRetryable(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	handler := NewHandler(createTestConfig(), rdb, logger.NewTestLogger(t))

	mock.ExpectGet("pricewatch:sub-42:rixos-premium-belek").
		SetErr(errors.New("connection refused"))

	input := &Input{
		SubscriptionID: "sub-42",
		TourCards:      []models.TourCard{card("rixos-premium-belek", "Rixos Premium Belek", 150000)},
	}

	output, err := handler.Execute(context.Background(), input)

	assert.ErrorIs(t, err, ErrPriceCheckFailed)
	assert.Nil(t, output)
	assert.NoError(t, mock.ExpectationsWereMet())
}
