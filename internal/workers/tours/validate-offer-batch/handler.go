// internal/workers/tours/validate-offer-batch/handler.go
package validateofferbatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "validate-offer-batch"

var (
	ErrOfferValidationFailed = errors.New("OFFER_VALIDATION_FAILED")
	ErrBatchTooLarge         = errors.New("offer batch exceeds configured maximum")
)

// offerSchema is the structural contract every provider offer must satisfy
// before it is allowed near the ranking engine.
const offerSchema = `{
	"type": "object",
	"required": ["provider", "hotel", "price"],
	"properties": {
		"provider":    {"type": "string", "minLength": 1},
		"hotel":       {"type": "string"},
		"price":       {"type": "number"},
		"priceOld":    {"type": "number", "minimum": 0},
		"stars":       {"type": "integer", "minimum": 0, "maximum": 5},
		"nights":      {"type": "integer", "minimum": 0},
		"latitude":    {"type": "number", "minimum": -90, "maximum": 90},
		"longitude":   {"type": "number", "minimum": -180, "maximum": 180},
		"rating":      {"type": "number", "minimum": 0, "maximum": 5},
		"beachLine":   {"type": "integer", "minimum": 1}
	}
}`

// compiledOfferSchema is built once at startup; the schema is a constant, so
// a compile failure is a programming error.
var compiledOfferSchema = func() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(offerSchema))
	if err != nil {
		panic(fmt.Sprintf("compile offer schema: %v", err))
	}
	return schema
}()

type Handler struct {
	config *Config
	logger logger.Logger
	schema *gojsonschema.Schema
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		schema: compiledOfferSchema,
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
		h.failJob(client, job, "OFFER_VALIDATION_FAILED", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if h.config.MaxBatchSize > 0 && len(input.Offers) > h.config.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(input.Offers), h.config.MaxBatchSize)
	}

	start := time.Now()

	output := &Output{
		Offers:            []models.TourOffer{},
		RejectsByProvider: map[string]int{},
		ValidationErrors:  []OfferError{},
	}

	for i, offer := range input.Offers {
		if errs := h.validateOffer(i, offer); len(errs) > 0 {
			output.ValidationErrors = append(output.ValidationErrors, errs...)
			output.RejectsByProvider[offer.Provider]++
			continue
		}
		output.Offers = append(output.Offers, offer)
	}

	output.AcceptedCount = len(output.Offers)
	output.DroppedCount = len(input.Offers) - output.AcceptedCount

	if h.config.FailOnAllDrop && len(input.Offers) > 0 && output.AcceptedCount == 0 {
		return nil, fmt.Errorf("%w: all %d offers rejected", ErrOfferValidationFailed, len(input.Offers))
	}

	h.logger.Info("offer batch validated", map[string]interface{}{
		"inputCount": len(input.Offers),
		"accepted":   output.AcceptedCount,
		"dropped":    output.DroppedCount,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return output, nil
}

func (h *Handler) validateOffer(index int, offer models.TourOffer) []OfferError {
	var errs []OfferError

	result, err := h.schema.Validate(gojsonschema.NewGoLoader(offer))
	if err != nil {
		errs = append(errs, OfferError{
			OfferIndex: index,
			Provider:   offer.Provider,
			Field:      "",
			Message:    fmt.Sprintf("schema validation error: %v", err),
		})
		return errs
	}
	if !result.Valid() {
		for _, desc := range result.Errors() {
			errs = append(errs, OfferError{
				OfferIndex: index,
				Provider:   offer.Provider,
				Field:      desc.Field(),
				Message:    desc.Description(),
			})
		}
		return errs
	}

	// The schema cannot express "non-blank after trimming" or "strictly
	// positive", so the hard business minimums are checked explicitly.
	if strings.TrimSpace(offer.Hotel) == "" {
		errs = append(errs, OfferError{
			OfferIndex: index,
			Provider:   offer.Provider,
			Field:      "hotel",
			Message:    "hotel name must not be empty",
		})
	}
	if offer.Price <= 0 {
		errs = append(errs, OfferError{
			OfferIndex: index,
			Provider:   offer.Provider,
			Field:      "price",
			Message:    "price must be positive",
		})
	}

	return errs
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
