package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yurifrl/festas/pkg/models"
)

var ErrNoSources = errors.New("plan has no sources")

// Source is one input of the plan.
type Source struct {
	Type  string `yaml:"type"`
	File  string `yaml:"file"`
	Sheet string `yaml:"sheet,omitempty"`
}

// Output names the files a run writes. Empty paths are skipped, except JSON
// which falls back to stdout in the CLI.
type Output struct {
	JSON    string `yaml:"json,omitempty"`
	CSV     string `yaml:"csv,omitempty"`
	Rejects string `yaml:"rejects,omitempty"`
}

type Plan struct {
	Sources []Source `yaml:"sources"`
	Output  Output   `yaml:"output"`
}

// Load reads a YAML plan. Relative paths are resolved against the plan's
// directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := p.resolve(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every source type is known and listed once.
func (p *Plan) Validate() error {
	if len(p.Sources) == 0 {
		return ErrNoSources
	}
	seen := make(map[models.Source]bool, len(p.Sources))
	for i, src := range p.Sources {
		kind, err := models.ParseSource(src.Type)
		if err != nil {
			return fmt.Errorf("source %d: %w", i+1, err)
		}
		if seen[kind] {
			return fmt.Errorf("source %d: type %s listed more than once", i+1, kind.ID())
		}
		seen[kind] = true
		if strings.TrimSpace(src.File) == "" {
			return fmt.Errorf("source %d (%s): file is required", i+1, kind.ID())
		}
	}
	return nil
}

func (p *Plan) resolve(base string) error {
	for i := range p.Sources {
		path, err := expand(p.Sources[i].File, base)
		if err != nil {
			return err
		}
		p.Sources[i].File = path
	}
	for _, dst := range []*string{&p.Output.JSON, &p.Output.CSV, &p.Output.Rejects} {
		path, err := expand(*dst, base)
		if err != nil {
			return err
		}
		*dst = path
	}
	return nil
}

// expand turns "~/x" into a home path and relative paths into base-relative
// ones. Empty paths stay empty.
func expand(path, base string) (string, error) {
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) || base == "" {
		return path, nil
	}
	return filepath.Join(base, path), nil
}

// Print writes a one-line description of each source.
func (p *Plan) Print() {
	for i, src := range p.Sources {
		sheet := ""
		if src.Sheet != "" {
			sheet = " sheet=" + src.Sheet
		}
		fmt.Printf("[%d] type=%s file=%s%s\n", i+1, src.Type, src.File, sheet)
	}
}
