package registry

import (
	"fmt"
	"time"
)

// Implementation states an activity moves through.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusVerified   = "verified"
)

var knownStatuses = map[string]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusVerified:   true,
}

// ActivityRegistry is the on-disk catalogue of task types served by this
// repository, shared with process modellers.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one Zeebe task type: its contract and its failure modes.
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
	Workflows            []string               `json:"workflows,omitempty"`
	Tags                 []string               `json:"tags,omitempty"`
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (a Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", a.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %q", a.Timeout)
	}
	return d, nil
}

// Serving reports whether the activity is implemented and may be routed to.
func (a Activity) Serving() bool {
	return a.ImplementationStatus == StatusCompleted || a.ImplementationStatus == StatusVerified
}

// MissingErrorCodes returns the codes from thrown that the activity does not
// declare, in input order.
func (a Activity) MissingErrorCodes(thrown ...string) []string {
	declared := make(map[string]bool, len(a.ErrorCodes))
	for _, c := range a.ErrorCodes {
		declared[c] = true
	}
	var missing []string
	for _, c := range thrown {
		if !declared[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
