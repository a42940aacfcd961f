// internal/workers/data-access/query-hotel-index/handler.go
package queryhotelindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	apperrors "tour-workers/internal/common/errors"
	"tour-workers/internal/common/logger"
	"tour-workers/internal/workers/data-access/query-hotel-index/queries"
)

const (
	TaskType = "query-hotel-index"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrSearchQueryFailed             = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout                 = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound                 = errors.New("INDEX_NOT_FOUND")
	ErrUnknownQueryType              = errors.New("UNKNOWN_QUERY_TYPE")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
	errs   *apperrors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
		logger: scoped,
		errs:   apperrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		// Connection errors and timeouts fail with retries left; a missing
		// index or unknown query type ends the process.
		h.errs.HandleJobError(context.Background(), client, job, classifyError(err, &input))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	hq := queries.HotelIndexQuery{
		Index:       input.IndexName,
		QueryType:   input.QueryType,
		HotelName:   input.HotelName,
		Destination: input.Destination,
		Filters:     input.Filters,
	}
	if hq.Index == "" {
		hq.Index = h.config.DefaultIndex
	}
	hq.Pagination.From = input.Pagination.From
	hq.Pagination.Size = input.Pagination.Size

	result, err := queries.Execute(ctx, h.client, hq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		if errors.Is(err, queries.ErrUnknownQueryType) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownQueryType, err)
		}
		if errors.Is(err, queries.ErrMissingIndex) {
			return nil, fmt.Errorf("%w: %v", ErrIndexNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
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

// classifyError maps execute errors onto the application taxonomy.
func classifyError(err error, input *Input) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(input.IndexName)
	case errors.Is(err, ErrSearchTimeout):
		return apperrors.NewSearchTimeoutError(input.QueryType)
	case errors.Is(err, ErrUnknownQueryType):
		return &apperrors.StandardError{
			Code:      "UNKNOWN_QUERY_TYPE",
			Message:   "Unsupported hotel index query type",
			Details:   fmt.Sprintf("queryType: %s", input.QueryType),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	case errors.Is(err, ErrElasticsearchConnectionFailed):
		return apperrors.NewElasticsearchConnectionFailedError(err)
	default:
		return apperrors.NewSearchQueryFailedError(input.QueryType, err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
