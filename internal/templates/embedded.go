package templates

import (
	"embed"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed pack
var defaultPack embed.FS

const templateSuffix = ".tmpl"

// Template ids used by the scaffolder.
const (
	ProjectManifest    = "project/manifest"
	ProjectGitignore   = "project/gitignore"
	ProjectLintConfig  = "project/lint-config"
	ProjectTestConfig  = "project/test-config"
	ProjectPromptBase  = "project/prompt-base"
	ProjectModels      = "project/models"
	ProjectControllers = "project/controllers"
	ProjectPipeline    = "project/pipeline"
	ProjectEntrypoint  = "project/entrypoint"

	PromptCreateTerminal      = "prompt/create-terminal"
	PromptCreateLinked        = "prompt/create-linked"
	ModelsAppendClass         = "models/append-class"
	ControllersAppendTerminal = "controllers/append-terminal"
	ControllersAppendLinked   = "controllers/append-linked"
	PipelineAppendTerminal    = "pipeline/append-terminal"
	PipelineAppendLinked      = "pipeline/append-linked"
)

// FSRepository serves "<id>.tmpl" files from a file system.
type FSRepository struct {
	fsys fs.FS
}

// NewFSRepository wraps fsys.
func NewFSRepository(fsys fs.FS) *FSRepository {
	return &FSRepository{fsys: fsys}
}

// Embedded returns the default pack compiled into the binary.
func Embedded() *FSRepository {
	sub, err := fs.Sub(defaultPack, "pack")
	if err != nil {
		panic(err)
	}
	return NewFSRepository(sub)
}

// Lookup implements Repository.
func (r *FSRepository) Lookup(id string) (string, error) {
	if !fs.ValidPath(id) {
		return "", &NotFoundError{ID: id}
	}
	data, err := fs.ReadFile(r.fsys, id+templateSuffix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{ID: id}
		}
		return "", err
	}
	return string(data), nil
}

// IDs implements Lister.
func (r *FSRepository) IDs() ([]string, error) {
	var ids []string
	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != templateSuffix {
			return nil
		}
		ids = append(ids, strings.TrimSuffix(p, templateSuffix))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Files returns every file of the repository keyed by its slash path, for export.
func (r *FSRepository) Files() (map[string][]byte, error) {
	files := map[string][]byte{}
	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(r.fsys, p)
		if err != nil {
			return err
		}
		files[p] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
