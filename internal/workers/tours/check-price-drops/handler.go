// internal/workers/tours/check-price-drops/handler.go
package checkpricedrops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "tour-workers/internal/common/errors"
	"tour-workers/internal/common/logger"
	"tour-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const TaskType = "check-price-drops"

var (
	ErrPriceCheckFailed      = errors.New("PRICE_CHECK_FAILED")
	ErrMissingSubscriptionID = errors.New("subscriptionId is required")
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
	errs   *apperrors.ErrorHandler
}

func NewHandler(config *Config, rdb *redis.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		redis:  rdb,
		logger: scoped,
		errs:   apperrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.Is(err, ErrMissingSubscriptionID) {
			stdErr = apperrors.NewBusinessRuleError("subscription id is required", err.Error())
		} else {
			stdErr = apperrors.NewPriceCheckFailedError(err)
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		// Snapshot reads and writes hit Redis, so transient failures get
		// fail-with-retries instead of a terminal BPMN error.
		h.errs.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SubscriptionID == "" {
		return nil, ErrMissingSubscriptionID
	}

	output := &Output{Alerts: []PriceDropAlert{}}

	for _, card := range input.TourCards {
		if card.Hotel.ID == "" || card.BestPrice.Price <= 0 {
			continue
		}
		output.CheckedCount++

		key := snapshotKey(input.SubscriptionID, card.Hotel.ID)
		current := card.BestPrice.Price

		prev, err := h.redis.Get(ctx, key).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				return nil, fmt.Errorf("%w: read snapshot %s: %v", ErrPriceCheckFailed, key, err)
			}
			// First sighting for this subscription; store and move on.
			if err := h.storeSnapshot(ctx, key, current); err != nil {
				return nil, err
			}
			continue
		}

		prevPrice, err := strconv.ParseFloat(prev, 64)
		if err != nil || prevPrice <= 0 {
			h.logger.Warn("discarding unreadable price snapshot", map[string]interface{}{
				"key":   key,
				"value": prev,
			})
			if err := h.storeSnapshot(ctx, key, current); err != nil {
				return nil, err
			}
			continue
		}

		if current < prevPrice {
			dropPercent := (prevPrice - current) / prevPrice * 100
			if dropPercent >= h.config.MinDropPercent {
				output.Alerts = append(output.Alerts, PriceDropAlert{
					HotelID:       card.Hotel.ID,
					HotelName:     card.Hotel.Name,
					PreviousPrice: prevPrice,
					CurrentPrice:  current,
					DropPercent:   dropPercent,
					Provider:      card.BestPrice.Provider,
					Link:          card.BestPrice.Link,
				})
				metrics.PriceDropsDetected.Inc()
			}
		}

		if err := h.storeSnapshot(ctx, key, current); err != nil {
			return nil, err
		}
	}

	output.AlertCount = len(output.Alerts)

	h.logger.Info("price check finished", map[string]interface{}{
		"subscriptionId": input.SubscriptionID,
		"checked":        output.CheckedCount,
		"alerts":         output.AlertCount,
	})

	return output, nil
}

func (h *Handler) storeSnapshot(ctx context.Context, key string, price float64) error {
	value := strconv.FormatFloat(price, 'f', -1, 64)
	if err := h.redis.Set(ctx, key, value, h.config.SnapshotTTL).Err(); err != nil {
		return fmt.Errorf("%w: write snapshot %s: %v", ErrPriceCheckFailed, key, err)
	}
	return nil
}

func snapshotKey(subscriptionID, hotelID string) string {
	return fmt.Sprintf("pricewatch:%s:%s", subscriptionID, hotelID)
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
