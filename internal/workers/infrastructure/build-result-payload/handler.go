// internal/workers/infrastructure/build-result-payload/handler.go
package buildresultpayload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/models"
	"tour-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "build-result-payload"

var (
	ErrPayloadBuildFailed    = errors.New("PAYLOAD_BUILD_FAILED")
	ErrPayloadSchemaNotFound = errors.New("PAYLOAD_SCHEMA_NOT_FOUND")
)

type schemaCacheEntry struct {
	schema   map[string]interface{}
	loadedAt time.Time
}

type Handler struct {
	config *Config
	logger logger.Logger
	cache  *schemaCacheEntry
	mu     sync.RWMutex
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		errorCode := "PAYLOAD_BUILD_FAILED"
		if errors.Is(err, ErrPayloadSchemaNotFound) {
			errorCode = "PAYLOAD_SCHEMA_NOT_FOUND"
		}
		h.failJob(client, job, errorCode, err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	results := make([]CardSummary, 0, len(input.TourCards))
	for _, card := range input.TourCards {
		results = append(results, buildSummary(card))
	}

	payload := ResultPayload{
		RequestID: input.RequestID,
		Status:    "success",
		Results:   results,
		Metadata: PayloadMetadata{
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Version:      h.config.AppVersion,
			TotalResults: len(results),
		},
	}

	schema, err := h.loadOutputSchema()
	if err != nil {
		return nil, err
	}
	if err := validatePayload(schema, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadBuildFailed, err)
	}

	return &Output{Payload: payload}, nil
}

// buildSummary flattens one ranked card into what the renderer shows.
func buildSummary(card models.TourCard) CardSummary {
	summary := CardSummary{
		Title:      card.Hotel.Name,
		PriceFrom:  card.PriceRange.Min,
		PriceTo:    card.PriceRange.Max,
		Stars:      card.Hotel.Stars,
		Rating:     card.Hotel.Rating,
		MatchScore: card.MatchScore,
		Link:       card.BestPrice.Link,
	}

	for _, badge := range card.Badges {
		label := badge.Label
		if label == "" {
			label = badge.Type
		}
		summary.Badges = append(summary.Badges, label)
	}

	if len(card.Hotel.Images) > 0 {
		summary.Photo = card.Hotel.Images[0]
	}

	return summary
}

func (h *Handler) loadOutputSchema() (map[string]interface{}, error) {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cache.loadedAt) < h.config.CacheTTL {
		schema := h.cache.schema
		h.mu.RUnlock()
		return schema, nil
	}
	h.mu.RUnlock()

	reg, err := registry.LoadRegistry(h.config.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read registry: %v", ErrPayloadSchemaNotFound, err)
	}

	activity, ok := reg.FindByTaskType(TaskType)
	if !ok || len(activity.OutputSchema) == 0 {
		return nil, fmt.Errorf("%w: no output schema registered for %s", ErrPayloadSchemaNotFound, TaskType)
	}

	h.mu.Lock()
	h.cache = &schemaCacheEntry{schema: activity.OutputSchema, loadedAt: time.Now()}
	h.mu.Unlock()

	return activity.OutputSchema, nil
}

func validatePayload(schemaMap map[string]interface{}, payload ResultPayload) error {
	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload validation failed: %v", errs)
	}

	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
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
		h.logger.Error("failed to throw error", map[string]interface{}{"error": err})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
