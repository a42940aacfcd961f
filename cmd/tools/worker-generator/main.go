// cmd/tools/worker-generator/main.go
//
// Scaffolds a new worker package from its activity registry entry, in the
// same shape as the existing workers: config.go, models.go, handler.go and
// handler_test.go under internal/workers/<category>/<task-type>/.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"tour-workers/pkg/registry"
)

type workerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Category     string
	Description  string
	Timeout      string
	PrimaryError string
	InputSchema  map[string]interface{}
	OutputSchema map[string]interface{}
}

func main() {
	activityID := flag.String("activity", "", "activity id from the registry (e.g. act-check-price-drops)")
	outputDir := flag.String("output", "./internal/workers/", "root directory for generated workers")
	registryPath := flag.String("registry", "configs/activity-registry.json", "path to the activity registry")
	flag.Parse()

	if *activityID == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>]")
		fmt.Println("\nExample:")
		fmt.Println("  go run cmd/tools/worker-generator/main.go -activity act-check-price-drops")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fatalf("load registry %s: %v", *registryPath, err)
	}

	activity, found := reg.FindByID(*activityID)
	if !found {
		fatalf("activity %q not found in %s", *activityID, *registryPath)
	}
	if !registry.IsKnownCategory(activity.Category) {
		fatalf("activity %s has unknown category %q", activity.ID, activity.Category)
	}

	data := workerData{
		Name:         activity.DisplayName,
		PackageName:  strings.ReplaceAll(activity.TaskType, "-", ""),
		TaskType:     activity.TaskType,
		Category:     activity.Category,
		Description:  activity.Description,
		Timeout:      activity.Timeout,
		PrimaryError: primaryErrorCode(activity),
		InputSchema:  activity.InputSchema,
		OutputSchema: activity.OutputSchema,
	}

	workerDir := filepath.Join(*outputDir, activity.Category, activity.TaskType)
	if err := os.MkdirAll(workerDir, 0755); err != nil {
		fatalf("create %s: %v", workerDir, err)
	}

	funcMap := template.FuncMap{
		"schemaFields": schemaFields,
		"sentinelName": sentinelName,
	}

	files := map[string]string{
		"config.go":       configTemplate,
		"models.go":       modelsTemplate,
		"handler.go":      handlerTemplate,
		"handler_test.go": testTemplate,
	}

	for name, tmplStr := range files {
		tmpl, err := template.New(name).Funcs(funcMap).Parse(tmplStr)
		if err != nil {
			fatalf("parse template %s: %v", name, err)
		}

		path := filepath.Join(workerDir, name)
		file, err := os.Create(path)
		if err != nil {
			fatalf("create %s: %v", path, err)
		}
		if err := tmpl.Execute(file, data); err != nil {
			file.Close()
			fatalf("render %s: %v", name, err)
		}
		file.Close()
		fmt.Printf("generated %s\n", path)
	}

	fmt.Printf("\nworker scaffold ready at %s\n", workerDir)
	fmt.Println("next steps:")
	fmt.Println("  1. fill in execute() in handler.go")
	fmt.Println("  2. register the worker in cmd/worker-manager/main.go")
	fmt.Printf("  3. add a workers.%s section to the configuration\n", data.TaskType)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "worker-generator: "+format+"\n", args...)
	os.Exit(1)
}

// primaryErrorCode picks the first registered error code for the sentinel,
// falling back to a generic one.
func primaryErrorCode(activity *registry.Activity) string {
	for _, code := range activity.ErrorCodes {
		if code != "PARSE_ERROR" {
			return code
		}
	}
	return "EXECUTION_FAILED"
}

// sentinelName turns UPPER_SNAKE error codes into Go sentinel identifiers,
// e.g. PRICE_CHECK_FAILED -> ErrPriceCheckFailed.
func sentinelName(code string) string {
	var b strings.Builder
	b.WriteString("Err")
	for _, part := range strings.Split(strings.ToLower(code), "_") {
		b.WriteString(exportName(part))
	}
	return b.String()
}

func exportName(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// schemaFields renders Go struct fields from a JSON Schema's properties.
func schemaFields(schema map[string]interface{}) string {
	props, ok := schema["properties"].(map[string]interface{})
	if !ok || len(props) == 0 {
		return "\t// fields from the activity registry schema go here"
	}

	var fields []string
	for name, raw := range props {
		details, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		fields = append(fields, fmt.Sprintf("\t%s %s `json:\"%s\"`",
			exportName(name), goType(details["type"]), name))
	}
	return strings.Join(fields, "\n")
}

func goType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "number":
		return "float64"
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "array":
		return "[]interface{}"
	case "object":
		return "map[string]interface{}"
	default:
		return "interface{}"
	}
}

const configTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/models.go
package {{ .PackageName }}

// Input holds the job variables consumed by the {{ .TaskType }} worker.
type Input struct {
{{ schemaFields .InputSchema }}
}

// Output holds the job variables produced on completion.
type Output struct {
{{ schemaFields .OutputSchema }}
}
`

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tour-workers/internal/common/logger"
	"tour-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "{{ .TaskType }}"

var {{ sentinelName .PrimaryError }} = errors.New("{{ .PrimaryError }}")

// Handler implements the {{ .Name }} worker.
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "{{ .PrimaryError }}").Inc()
		h.failJob(client, job, "{{ .PrimaryError }}", err.Error())
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// {{ .Description }}
	return nil, fmt.Errorf("%w: not implemented", {{ sentinelName .PrimaryError }})
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
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
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
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	"tour-workers/internal/common/logger"

	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: 10 * time.Second}, logger.NewTestLogger(t))
}

func TestExecute_NotImplemented(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{})
	require.ErrorIs(t, err, {{ sentinelName .PrimaryError }})
}
`
