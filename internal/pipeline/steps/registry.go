// Package steps provides step definitions and dependency validation for the
// cover letter session. A Tracker records the session timeline and refuses
// to start a step whose dependencies have not completed.
package steps

import (
	"fmt"
	"sync"
	"time"
)

// Step categories
const (
	CategoryPrompt     = "prompt"
	CategoryScrape     = "scrape"
	CategoryGeneration = "generation"
	CategoryArtifacts  = "artifacts"
)

// Step names
const (
	PromptURL          = "prompt_url"
	StartScrape        = "start_scrape"
	Scrape             = "scrape"
	PromptCV           = "prompt_cv"
	PromptExemplar     = "prompt_exemplar"
	PromptLength       = "prompt_length"
	PromptTone         = "prompt_tone"
	PromptFocus        = "prompt_focus"
	PromptOutput       = "prompt_output"
	JoinScrape         = "join_scrape"
	LoadTemplates      = "load_templates"
	ValidateRequest    = "validate_request"
	EnsureDir          = "ensure_dir"
	SaveJobDescription = "save_job_description"
	BuildPrompt        = "build_prompt"
	Generate           = "generate"
	WriteSource        = "write_source"
	Render             = "render"
	Cleanup            = "cleanup"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	// After lists steps that must have settled, completed or failed.
	After []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	PromptURL:   {Name: PromptURL, Category: CategoryPrompt},
	StartScrape: {Name: StartScrape, Category: CategoryScrape, Dependencies: []string{PromptURL}},
	Scrape:      {Name: Scrape, Category: CategoryScrape, Dependencies: []string{StartScrape}},

	PromptCV:       {Name: PromptCV, Category: CategoryPrompt, Dependencies: []string{StartScrape}},
	PromptExemplar: {Name: PromptExemplar, Category: CategoryPrompt, Dependencies: []string{PromptCV}},
	PromptLength:   {Name: PromptLength, Category: CategoryPrompt, Dependencies: []string{PromptExemplar}},
	PromptTone:     {Name: PromptTone, Category: CategoryPrompt, Dependencies: []string{PromptLength}},
	PromptFocus:    {Name: PromptFocus, Category: CategoryPrompt, Dependencies: []string{PromptTone}},
	PromptOutput:   {Name: PromptOutput, Category: CategoryPrompt, Dependencies: []string{PromptFocus}},

	JoinScrape:      {Name: JoinScrape, Category: CategoryScrape, Dependencies: []string{StartScrape, PromptOutput}},
	LoadTemplates:   {Name: LoadTemplates, Category: CategoryGeneration, Dependencies: []string{PromptCV, PromptExemplar}},
	ValidateRequest: {Name: ValidateRequest, Category: CategoryGeneration, Dependencies: []string{JoinScrape, LoadTemplates, PromptTone, PromptFocus}},

	EnsureDir:          {Name: EnsureDir, Category: CategoryArtifacts, Dependencies: []string{ValidateRequest}},
	SaveJobDescription: {Name: SaveJobDescription, Category: CategoryArtifacts, Dependencies: []string{Scrape, EnsureDir}},

	BuildPrompt: {Name: BuildPrompt, Category: CategoryGeneration, Dependencies: []string{Scrape, JoinScrape, SaveJobDescription, PromptLength, PromptOutput}},
	Generate:    {Name: Generate, Category: CategoryGeneration, Dependencies: []string{BuildPrompt}},
	WriteSource: {Name: WriteSource, Category: CategoryArtifacts, Dependencies: []string{Generate, EnsureDir}},
	Render:      {Name: Render, Category: CategoryArtifacts, Dependencies: []string{WriteSource}},
	Cleanup:     {Name: Cleanup, Category: CategoryArtifacts, Dependencies: []string{WriteSource}, After: []string{Render}},
}

// Status of a step in a Tracker.
type Status string

// Step statuses
const (
	StatusPending    Status = ""
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Record is one status transition.
type Record struct {
	Seq    int       `json:"seq"`
	Step   string    `json:"step"`
	Status Status    `json:"status"`
	At     time.Time `json:"at"`
	Error  string    `json:"error,omitempty"`
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Tracker records step transitions for one session. It is safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	status  map[string]Status
	records []Record
	now     func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		status: make(map[string]Status),
		now:    time.Now,
	}
}

// ValidateDependencies checks if all required dependencies for a step are completed
func ValidateDependencies(t *Tracker, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if t.Status(dep) != StatusCompleted {
			missing = append(missing, dep)
		}
	}
	for _, dep := range def.After {
		if status := t.Status(dep); status != StatusCompleted && status != StatusFailed {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// Begin marks step in progress after validating its dependencies.
func (t *Tracker) Begin(step string) error {
	if err := ValidateDependencies(t, step); err != nil {
		return err
	}
	t.record(step, StatusInProgress, nil)
	return nil
}

// Finish marks step completed, or failed when err is non-nil.
func (t *Tracker) Finish(step string, err error) {
	if err != nil {
		t.record(step, StatusFailed, err)
		return
	}
	t.record(step, StatusCompleted, nil)
}

// Run begins step, runs fn and finishes the step with its result.
func (t *Tracker) Run(step string, fn func() error) error {
	if err := t.Begin(step); err != nil {
		return err
	}
	err := fn()
	t.Finish(step, err)
	return err
}

// Status returns the latest status of step.
func (t *Tracker) Status(step string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status[step]
}

// Records returns a copy of the timeline.
func (t *Tracker) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Record(nil), t.records...)
}

// Seq returns the sequence number of the first transition of step into
// status, or -1.
func (t *Tracker) Seq(step string, status Status) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.records {
		if r.Step == step && r.Status == status {
			return r.Seq
		}
	}
	return -1
}

func (t *Tracker) record(step string, status Status, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r := Record{Seq: len(t.records), Step: step, Status: status, At: t.now()}
	if err != nil {
		r.Error = err.Error()
	}
	t.status[step] = status
	t.records = append(t.records, r)
}
