package scaffold

// Outcome is what happened to one artifact.
type Outcome string

const (
	// OutcomeCreated marks a file written fresh.
	OutcomeCreated Outcome = "created"
	// OutcomeAppended marks a fragment added to an existing file.
	OutcomeAppended Outcome = "appended"
	// OutcomeFailed marks an artifact whose render or write failed. Its
	// Result carries the error and nothing was written for it.
	OutcomeFailed Outcome = "failed"
)

// Artifact kinds reported per result.
const (
	ArtifactManifest    = "manifest"
	ArtifactGitignore   = "gitignore"
	ArtifactLintConfig  = "lint-config"
	ArtifactTestConfig  = "test-config"
	ArtifactPromptBase  = "prompt-base"
	ArtifactPrompt      = "prompt"
	ArtifactModels      = "models"
	ArtifactControllers = "controllers"
	ArtifactPipeline    = "pipeline"
	ArtifactEntrypoint  = "entrypoint"
)

// Result records a single artifact write attempt.
type Result struct {
	Artifact string  `json:"artifact"`
	Template string  `json:"template"`
	Path     string  `json:"path"`
	Outcome  Outcome `json:"outcome"`
	Error    string  `json:"error,omitempty"`
	Err      error   `json:"-"`
}

// Report summarises one orchestrator operation.
type Report struct {
	Operation string   `json:"operation"`
	Dir       string   `json:"dir"`
	Prompt    string   `json:"prompt,omitempty"`
	DryRun    bool     `json:"dry_run"`
	Results   []Result `json:"results"`
}

// Failed returns the results whose write did not happen.
func (r *Report) Failed() []Result {
	failed := []Result{}
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err returns a *PartialFailureError when any artifact failed, nil otherwise.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &PartialFailureError{Operation: r.Operation, Failed: failed, Total: len(r.Results)}
}
