// Package artifact resolves the files produced by the training process and
// checks that they exist before a page uses them.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Kind identifies one of the artifacts the dashboard reads.
type Kind string

const (
	Dataset  Kind = "dataset"
	Pipeline Kind = "pipeline"
	Metrics  Kind = "metrics"
)

var missingMessages = map[Kind]string{
	Dataset:  "Cleaned dataset not found. Run the data collection step to generate it.",
	Pipeline: "Pipeline not found. Run the model training step to generate it.",
	Metrics:  "Metrics file not found. Run the model training step to generate it.",
}

// MissingError reports that a required artifact is absent.
type MissingError struct {
	Kind Kind
	Path string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found at %q", e.Kind, e.Path)
}

func (e *MissingError) Unwrap() error {
	return os.ErrNotExist
}

// Message returns the static text shown to users when the artifact is missing.
func (e *MissingError) Message() string {
	return missingMessages[e.Kind]
}

// IsMissing reports whether err is a MissingError and returns it.
func IsMissing(err error) (*MissingError, bool) {
	var me *MissingError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// Layout maps every artifact to a path under one base directory.
type Layout struct {
	BaseDir string
	paths   map[Kind]string
}

// NewLayout builds a Layout. Relative artifact paths are joined onto baseDir;
// absolute paths are used unchanged.
func NewLayout(baseDir, dataset, pipeline, metrics string) Layout {
	l := Layout{BaseDir: baseDir, paths: make(map[Kind]string, 3)}
	l.paths[Dataset] = l.resolve(dataset)
	l.paths[Pipeline] = l.resolve(pipeline)
	l.paths[Metrics] = l.resolve(metrics)
	return l
}

func (l Layout) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.BaseDir, p)
}

// Path returns the resolved path of an artifact without checking it.
func (l Layout) Path(k Kind) string {
	return l.paths[k]
}

// Require returns the artifact path, or a *MissingError when the file does
// not exist.
func (l Layout) Require(k Kind) (string, error) {
	p := l.paths[k]
	if p == "" {
		return "", &MissingError{Kind: k, Path: p}
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &MissingError{Kind: k, Path: p}
		}
		return "", fmt.Errorf("failed to stat %s: %w", k, err)
	}
	if info.IsDir() {
		return "", &MissingError{Kind: k, Path: p}
	}
	return p, nil
}
