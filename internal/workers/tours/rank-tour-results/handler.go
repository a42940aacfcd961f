// internal/workers/tours/rank-tour-results/handler.go
package ranktourresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/common/metrics"
	"tour-workers/internal/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-tour-results"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

// OffersRecorder receives per-provider offer counts for the otel pipeline.
type OffersRecorder interface {
	RecordOffersRanked(ctx context.Context, count int, provider string)
}

type Handler struct {
	config *Config
	obs    OffersRecorder
	logger logger.Logger
}

func NewHandler(config *Config, obs OffersRecorder, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "RANKING_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()

	perProvider := make(map[string]int)
	for _, offer := range input.Offers {
		metrics.OffersProcessed.WithLabelValues(offer.Provider).Inc()
		perProvider[offer.Provider]++
	}
	if h.obs != nil {
		for provider, count := range perProvider {
			h.obs.RecordOffersRanked(ctx, count, provider)
		}
	}

	weights := input.PriorityWeights
	if len(weights) == 0 {
		weights = h.config.DefaultWeights
	}

	cards := engine.RankAndGroup(input.Offers, input.SearchRequest, weights)
	metrics.CardsBuilt.Observe(float64(len(cards)))

	if h.config.MaxCards > 0 && len(cards) > h.config.MaxCards {
		cards = cards[:h.config.MaxCards]
	}

	duration := time.Since(start).Milliseconds()
	h.logger.Info("ranking completed", map[string]interface{}{
		"offerCount": len(input.Offers),
		"cardCount":  len(cards),
		"durationMs": duration,
	})

	if duration > 500 {
		h.logger.Warn("ranking exceeded 500ms", map[string]interface{}{
			"durationMs": duration,
		})
	}

	return &Output{
		TourCards:  cards,
		TotalCards: len(cards),
		DurationMs: duration,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
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
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
