// internal/workers/tours/parse-search-criteria/handler.go
package parsesearchcriteria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "parse-search-criteria"

var (
	ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")
)

var validBudgetTypes = map[string]bool{
	models.BudgetTypeTotal:     true,
	models.BudgetTypePerPerson: true,
}

type Handler struct {
	config *Config
	logger logger.Logger
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
		h.failJob(client, job, "INVALID_FILTER_FORMAT", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.RawFilters == nil {
		input.RawFilters = make(map[string]interface{})
	}

	req := models.SearchRequest{
		BudgetType: models.BudgetTypeTotal,
		Adults:     h.config.DefaultAdults,
	}

	budgetRaw, ok := input.RawFilters["budget"]
	if !ok {
		return nil, fmt.Errorf("%w: budget is required", ErrInvalidFilterFormat)
	}
	budget, err := h.parseFloat(budgetRaw)
	if err != nil || budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be a positive number, got %v", ErrInvalidFilterFormat, budgetRaw)
	}
	req.Budget = budget

	if btRaw, ok := input.RawFilters["budgetType"]; ok {
		bt, isStr := btRaw.(string)
		bt = strings.TrimSpace(bt)
		if !isStr || !validBudgetTypes[bt] {
			return nil, fmt.Errorf("%w: invalid budgetType %v", ErrInvalidFilterFormat, btRaw)
		}
		req.BudgetType = bt
	}

	if adultsRaw, ok := input.RawFilters["adults"]; ok {
		if adults, err := h.parseInt(adultsRaw); err == nil && adults >= 1 {
			req.Adults = adults
		}
	}

	if childrenRaw, ok := input.RawFilters["children"]; ok {
		if children, err := h.parseInt(childrenRaw); err == nil && children >= 0 {
			req.Children = children
		}
	}

	if destRaw, ok := input.RawFilters["destination"]; ok {
		if s, isStr := destRaw.(string); isStr {
			req.Destination = strings.TrimSpace(s)
		}
	}

	if reqsRaw, ok := input.RawFilters["requirements"]; ok {
		req.Requirements = h.parseStringArray(reqsRaw)
	}

	weights := models.PriorityWeights{}
	if weightsRaw, ok := input.RawFilters["priorities"]; ok {
		wMap, isMap := weightsRaw.(map[string]interface{})
		if !isMap {
			return nil, fmt.Errorf("%w: priorities must be an object", ErrInvalidFilterFormat)
		}
		for name, raw := range wMap {
			w, err := h.parseFloat(raw)
			if err != nil || w < 0 {
				return nil, fmt.Errorf("%w: priority %q must be a non-negative number", ErrInvalidFilterFormat, name)
			}
			// Unknown priority names pass through; scoring ignores them.
			weights[name] = w
		}
	}

	h.logger.Info("search criteria parsed", map[string]interface{}{
		"budget":      req.Budget,
		"budgetType":  req.BudgetType,
		"adults":      req.Adults,
		"children":    req.Children,
		"destination": req.Destination,
		"priorities":  len(weights),
	})

	return &Output{SearchRequest: req, PriorityWeights: weights}, nil
}

func (h *Handler) parseStringArray(raw interface{}) []string {
	result := []string{}

	if raw == nil {
		return result
	}

	seen := make(map[string]bool)

	switch v := raw.(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			trimmed := strings.TrimSpace(s)
			if trimmed != "" && !seen[trimmed] {
				seen[trimmed] = true
				result = append(result, trimmed)
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				trimmed := strings.TrimSpace(s)
				if trimmed != "" && !seen[trimmed] {
					seen[trimmed] = true
					result = append(result, trimmed)
				}
			}
		}
	}

	return result
}

func (h *Handler) parseFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("cannot parse %T as number", raw)
	}
}

func (h *Handler) parseInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("cannot parse %T as integer", raw)
	}
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
