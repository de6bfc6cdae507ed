// Package artifact writes rendered text into project files, either creating a
// fresh file or appending a separated block to an existing one.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"
)

// Separator precedes every appended block so successive blocks stay separable.
const Separator = "\n\n"

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Mode selects how content reaches the target path.
type Mode int

const (
	// ModeCreate writes a new file and refuses to replace an existing one.
	ModeCreate Mode = iota
	// ModeAppend adds Separator and the content after existing bytes.
	ModeAppend
	// ModeReplace writes the file whether or not it exists. Generated indexes use it.
	ModeReplace
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeAppend:
		return "append"
	case ModeReplace:
		return "replace"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ErrArtifactExists is matched by every ExistsError.
var ErrArtifactExists = errors.New("artifact already exists")

// ExistsError reports a create against a path that is already occupied.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("artifact already exists: %s", e.Path)
}

// Is allows errors.Is(err, ErrArtifactExists).
func (e *ExistsError) Is(target error) bool {
	return target == ErrArtifactExists
}

// WriteError reports a filesystem failure with the offending path and operation.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Change records one write, applied or planned, with the file content before and after.
type Change struct {
	Path    string
	Mode    Mode
	Existed bool
	Before  string
	After   string
}

// Writer performs artifact writes. In dry-run mode it only records the
// changes it would make.
type Writer struct {
	fs      fileSystem
	dryRun  bool
	log     *logrus.Entry
	changes []Change
	pending map[string]string
}

// NewWriter constructs a writer backed by the real filesystem.
func NewWriter(logger *logrus.Logger, dryRun bool) *Writer {
	return newWriter(osFileSystem{}, logger, dryRun)
}

func newWriter(fsys fileSystem, logger *logrus.Logger, dryRun bool) *Writer {
	return &Writer{
		fs:      fsys,
		dryRun:  dryRun,
		log:     logger.WithField("component", "artifact"),
		pending: map[string]string{},
	}
}

// DryRun reports whether writes are only planned.
func (w *Writer) DryRun() bool { return w.dryRun }

// Changes returns every change recorded so far, in write order.
func (w *Writer) Changes() []Change {
	out := make([]Change, len(w.changes))
	copy(out, w.changes)
	return out
}

// Mkdir ensures a directory exists.
func (w *Writer) Mkdir(path string) error {
	if w.dryRun {
		w.log.WithFields(logrus.Fields{"action": "mkdir", "path": path, "dryRun": true}).Info("Skipping directory creation in dry-run mode")
		return nil
	}
	if err := w.fs.MkdirAll(path, dirPerm); err != nil {
		return &WriteError{Path: path, Op: "mkdir", Err: err}
	}
	w.log.WithFields(logrus.Fields{"action": "mkdir", "path": path}).Info("Directory ensured")
	return nil
}

// Write places content at path according to mode.
func (w *Writer) Write(path, content string, mode Mode) error {
	before, existed, err := w.current(path)
	if err != nil {
		return &WriteError{Path: path, Op: mode.String(), Err: err}
	}

	var after string
	switch mode {
	case ModeCreate:
		if existed {
			return &ExistsError{Path: path}
		}
		after = content
	case ModeAppend:
		if !existed {
			return &WriteError{Path: path, Op: mode.String(), Err: fs.ErrNotExist}
		}
		after = before + Separator + content
	case ModeReplace:
		after = content
	default:
		return &WriteError{Path: path, Op: mode.String(), Err: errors.New("unknown write mode")}
	}

	fields := logrus.Fields{"action": "write", "path": path, "mode": mode.String(), "dryRun": w.dryRun}
	if !w.dryRun {
		var werr error
		if mode == ModeAppend {
			werr = appendBlock(w.fs, path, []byte(Separator+content))
		} else {
			werr = createAtomic(w.fs, path, []byte(content), filePerm)
		}
		if werr != nil {
			w.log.WithFields(fields).WithError(werr).Warn("Artifact write failed")
			return &WriteError{Path: path, Op: mode.String(), Err: werr}
		}
	}

	w.pending[path] = after
	w.changes = append(w.changes, Change{Path: path, Mode: mode, Existed: existed, Before: before, After: after})
	w.log.WithFields(fields).Info("Artifact written")
	return nil
}

// current returns the content path holds now, accounting for planned dry-run writes.
func (w *Writer) current(path string) (string, bool, error) {
	if content, ok := w.pending[path]; ok {
		return content, true, nil
	}
	info, err := w.fs.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	if info.IsDir() {
		return "", true, nil
	}
	data, err := w.fs.ReadFile(path)
	if err != nil {
		return "", true, err
	}
	return string(data), true, nil
}
