package preview

// FileStatus represents the status of a file in the comparison
type FileStatus string

const (
	FileStatusAdded     FileStatus = "added"
	FileStatusModified  FileStatus = "modified"
	FileStatusRemoved   FileStatus = "removed"
	FileStatusUnchanged FileStatus = "unchanged"
)

// FileDiff represents the difference for a single file
type FileDiff struct {
	Path        string     `json:"path"`
	Status      FileStatus `json:"status"`
	UnifiedDiff string     `json:"diff,omitempty"`
	Before      []byte     `json:"-"`
	After       []byte     `json:"-"`
}

// Plan groups file differences by status
type Plan struct {
	Added     []FileDiff `json:"added"`
	Modified  []FileDiff `json:"modified"`
	Removed   []FileDiff `json:"removed"`
	Unchanged []FileDiff `json:"unchanged"`
}

func newPlan() *Plan {
	return &Plan{
		Added:     []FileDiff{},
		Modified:  []FileDiff{},
		Removed:   []FileDiff{},
		Unchanged: []FileDiff{},
	}
}

// HasChanges returns true if there are any changes
func (p *Plan) HasChanges() bool {
	return len(p.Added) > 0 || len(p.Modified) > 0 || len(p.Removed) > 0
}

// TotalChanges returns the total number of changes
func (p *Plan) TotalChanges() int {
	return len(p.Added) + len(p.Modified) + len(p.Removed)
}

// Ordered returns added, modified and removed entries in that order
func (p *Plan) Ordered() []FileDiff {
	out := make([]FileDiff, 0, p.TotalChanges())
	out = append(out, p.Added...)
	out = append(out, p.Modified...)
	return append(out, p.Removed...)
}

// GetFileDiff returns the FileDiff for a specific path, or nil if not found
func (p *Plan) GetFileDiff(path string) *FileDiff {
	for _, group := range [][]FileDiff{p.Added, p.Modified, p.Removed, p.Unchanged} {
		for i := range group {
			if group[i].Path == path {
				return &group[i]
			}
		}
	}
	return nil
}

func (p *Plan) add(d FileDiff) {
	switch d.Status {
	case FileStatusAdded:
		p.Added = append(p.Added, d)
	case FileStatusModified:
		p.Modified = append(p.Modified, d)
	case FileStatusRemoved:
		p.Removed = append(p.Removed, d)
	default:
		p.Unchanged = append(p.Unchanged, d)
	}
}
