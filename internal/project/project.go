package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/reelstats-cli/internal/utils"
)

const (
	projectFileName = utils.ProjectFile
	reportsDirName  = "reports"
)

// Project groups a dataset with the history of its analysis runs.
type Project struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Dataset     string    `json:"dataset,omitempty"`
	Preset      string    `json:"preset,omitempty"`
	Runs        []*Run    `json:"runs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	return &Project{
		Name:        name,
		Description: description,
		Runs:        []*Run{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureProjectDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// SetDataset records the dataset file analyzed by default. The path is
// stored absolute and must exist.
func (p *Project) SetDataset(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve dataset path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset %s is a directory", path)
	}
	p.Dataset = abs
	p.UpdatedAt = time.Now()
	return nil
}

// SetPreset records the default preset name for the project.
func (p *Project) SetPreset(name string) {
	p.Preset = strings.ToLower(strings.TrimSpace(name))
	p.UpdatedAt = time.Now()
}

// ReportsDir returns the directory holding the reports of run id.
func (p *Project) ReportsDir(id string) string {
	return filepath.Join(p.rootDir, reportsDirName, id)
}

// AddRun appends r to the run history, assigning an ID and timestamp when
// unset.
func (p *Project) AddRun(r Run) *Run {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	p.Runs = append(p.Runs, &r)
	p.UpdatedAt = time.Now()
	return &r
}

// LatestRun returns the most recent run, or nil.
func (p *Project) LatestRun() *Run {
	if len(p.Runs) == 0 {
		return nil
	}
	return p.Runs[len(p.Runs)-1]
}

// FindRun looks a run up by ID or unique ID prefix.
func (p *Project) FindRun(id string) (*Run, error) {
	var match *Run
	for _, r := range p.Runs {
		if r.ID == id {
			return r, nil
		}
		if id != "" && strings.HasPrefix(r.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run prefix %q is ambiguous", id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("run %q not found", id)
	}
	return match, nil
}
