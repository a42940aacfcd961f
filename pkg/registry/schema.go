// pkg/registry/schema.go
package registry

// Worker categories used across the registry and the generator.
const (
	CategoryTours          = "tours"
	CategoryDataAccess     = "data-access"
	CategoryNotifications  = "notifications"
	CategoryInfrastructure = "infrastructure"
)

// KnownCategories lists the worker groups under internal/workers.
var KnownCategories = []string{
	CategoryTours,
	CategoryDataAccess,
	CategoryNotifications,
	CategoryInfrastructure,
}

// ActivityRegistry is the catalog of worker activities serialized to
// configs/activity-registry.json.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one worker: its Zeebe task type, the JSON Schemas of
// its job variables, and the BPMN error codes it can throw.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

// IsKnownCategory reports whether category maps to a worker group directory.
func IsKnownCategory(category string) bool {
	for _, c := range KnownCategories {
		if c == category {
			return true
		}
	}
	return false
}
