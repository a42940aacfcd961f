// cmd/tools/registry-updater/main.go
//
// Maintains configs/activity-registry.json: the catalog of worker
// activities, their task types, job-variable schemas, error codes and
// workflow membership.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tour-workers/pkg/registry"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func pathFlag(fs *flag.FlagSet) *string {
	return fs.String("path", "configs/activity-registry.json", "path to the registry file")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "help":
		usage()
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "registry-updater: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	fs := newFlagSet("add")
	path := pathFlag(fs)
	id := fs.String("id", "", "activity id (e.g. act-check-price-drops)")
	displayName := fs.String("displayName", "", "human-readable name")
	description := fs.String("description", "", "what the worker does")
	category := fs.String("category", "", "worker group: "+strings.Join(registry.KnownCategories, ", "))
	taskType := fs.String("taskType", "", "Zeebe task type (e.g. check-price-drops)")
	version := fs.String("version", "1.0.0", "activity version")
	status := fs.String("status", "planned", "implementation status (planned, in-progress, completed, verified)")
	workflows := fs.String("workflows", "", "comma-separated workflow ids (e.g. tour-search)")
	fs.Parse(args)

	if *id == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return fmt.Errorf("id, displayName, description, category and taskType are required")
	}
	if !registry.IsKnownCategory(*category) {
		return fmt.Errorf("unknown category %q, expected one of: %s", *category, strings.Join(registry.KnownCategories, ", "))
	}

	reg, err := loadOrCreate(*path)
	if err != nil {
		return err
	}
	if _, exists := reg.FindByID(*id); exists {
		return fmt.Errorf("activity %s already exists", *id)
	}
	if _, exists := reg.FindByTaskType(*taskType); exists {
		return fmt.Errorf("task type %s is already registered", *taskType)
	}

	reg.Activities = append(reg.Activities, registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              "10s",
		Retries:              0,
		Workflows:            splitList(*workflows),
		Tags:                 []string{},
	})
	reg.LastUpdated = time.Now().Format(time.RFC3339)

	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("added %s (%s)\n", *id, *taskType)
	return nil
}

func runUpdate(args []string) error {
	fs := newFlagSet("update")
	path := pathFlag(fs)
	id := fs.String("id", "", "activity id to update")
	field := fs.String("field", "", "field to set: status, version, displayName, description, category, taskType, timeout, retries, workflows")
	value := fs.String("value", "", "new value")
	fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field and value are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	activity, found := reg.FindByID(*id)
	if !found {
		return fmt.Errorf("activity %s not found", *id)
	}

	switch *field {
	case "status":
		activity.ImplementationStatus = *value
	case "version":
		activity.Version = *value
	case "displayName":
		activity.DisplayName = *value
	case "description":
		activity.Description = *value
	case "category":
		if !registry.IsKnownCategory(*value) {
			return fmt.Errorf("unknown category %q", *value)
		}
		activity.Category = *value
	case "taskType":
		activity.TaskType = *value
	case "timeout":
		activity.Timeout = *value
	case "retries":
		retries, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	case "workflows":
		activity.Workflows = splitList(*value)
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("updated %s: %s = %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	fs := newFlagSet("validate")
	path := pathFlag(fs)
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range reg.Activities {
		switch {
		case a.ID == "":
			return fmt.Errorf("activity with empty id")
		case a.DisplayName == "":
			return fmt.Errorf("activity %s: missing displayName", a.ID)
		case a.TaskType == "":
			return fmt.Errorf("activity %s: missing taskType", a.ID)
		case !registry.IsKnownCategory(a.Category):
			return fmt.Errorf("activity %s: unknown category %q", a.ID, a.Category)
		case ids[a.ID]:
			return fmt.Errorf("duplicate activity id: %s", a.ID)
		case taskTypes[a.TaskType]:
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		ids[a.ID] = true
		taskTypes[a.TaskType] = true
	}

	fmt.Printf("registry ok: %d activities\n", len(reg.Activities))
	return nil
}

func runList(args []string) error {
	fs := newFlagSet("list")
	path := pathFlag(fs)
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	for _, category := range registry.KnownCategories {
		activities := reg.ByCategory(category)
		if len(activities) == 0 {
			continue
		}
		fmt.Printf("%s:\n", category)
		for _, a := range activities {
			fmt.Printf("  %-28s %-24s %s\n", a.ID, a.TaskType, a.ImplementationStatus)
		}
	}
	return nil
}

func loadOrCreate(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if os.IsNotExist(err) {
		return &registry.ActivityRegistry{
			Version:     "1.0.0",
			LastUpdated: time.Now().Format(time.RFC3339),
			Activities:  []registry.Activity{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func usage() {
	fmt.Println(`Usage: registry-updater <command> [flags]

Commands:
  add       Register a new worker activity
  update    Set a single field on an existing activity
  validate  Check the registry for missing fields and duplicates
  list      Print activities grouped by worker category
  help      Show this message

Examples:
  registry-updater add -id act-check-price-drops -displayName "Check Price Drops" \
    -description "Compares fresh best prices against stored snapshots" \
    -category tours -taskType check-price-drops -workflows background-price-watch
  registry-updater update -id act-check-price-drops -field status -value completed
  registry-updater validate
  registry-updater list`)
}
