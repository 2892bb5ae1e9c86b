// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
)

// Artifact names one of the four precomputed inputs.
type Artifact string

const (
	ArtifactPopular    Artifact = "popularity table"
	ArtifactTitleIndex Artifact = "title index"
	ArtifactBooks      Artifact = "catalog table"
	ArtifactSimilarity Artifact = "similarity matrix"
)

// ErrDimension reports a title index and similarity matrix that disagree
// on size, or a ragged matrix.
var ErrDimension = errors.New("dimension mismatch")

// ErrEmpty reports an artifact with no data rows.
var ErrEmpty = errors.New("no rows")

// LoadError is returned when an artifact is missing, malformed or
// inconsistent with the others. Any LoadError aborts the whole load.
type LoadError struct {
	Artifact Artifact
	Path     string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("loading %s from %s: %v", e.Artifact, e.Path, e.Err)
	}
	return fmt.Sprintf("loading %s: %v", e.Artifact, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(a Artifact, path string, format string, args ...any) *LoadError {
	return &LoadError{Artifact: a, Path: path, Err: fmt.Errorf(format, args...)}
}
