// Package session holds the user's processing session: the selected input
// files, the normalization parameters, and where results are written. A
// session is saved as YAML between invocations.
package session

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"oect/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultPath is the session file used when none is given.
const DefaultPath = "oect-session.yaml"

// EnvPrefix prefixes the environment variables that override built-in defaults,
// e.g., OECT_STARTING_POINT.
const EnvPrefix = "OECT"

// Parameters control how each file is read and normalized.
type Parameters struct {
	StartingPoint int     `yaml:"starting_point" envconfig:"STARTING_POINT" default:"449" validate:"min=0"` // index of the reference sample
	Standard      float64 `yaml:"standard" envconfig:"STANDARD" default:"-450"`                             // value the reference sample is shifted to, in uA
	StartLine     int     `yaml:"start_line" envconfig:"START_LINE" default:"15" validate:"min=1"`          // first data line, 1-based
}

// Session is the user-owned state a processing run reads from.
type Session struct {
	Files       []string   `yaml:"files"`
	Parameters  Parameters `yaml:"parameters" ignored:"true"`
	TableOutput string     `yaml:"table_output" envconfig:"TABLE_OUTPUT" default:"output.csv" validate:"required"`
	ImageOutput string     `yaml:"image_output" envconfig:"IMAGE_OUTPUT" default:"output.png" validate:"required_if=SavePlot true"`
	SavePlot    bool       `yaml:"save_plot" envconfig:"SAVE_PLOT" default:"true"`
}

// Defaults returns a session with no files and the built-in defaults,
// overridden by any OECT_* environment variables.
func Defaults() (*Session, error) {
	var s Session
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to load session defaults from env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &s.Parameters); err != nil {
		return nil, fmt.Errorf("failed to load parameter defaults from env: %w", err)
	}
	return &s, nil
}

// Load reads the session file at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Session, error) {
	s, err := Defaults()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("session file not found, using defaults", slog.String("file", path))
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	slog.Debug("loaded session", slog.String("file", path), slog.Int("files", len(s.Files)))
	return s, nil
}

// Save writes the session to path as YAML.
func (s *Session) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write session file: %w", err)
	}
	slog.Debug("saved session", slog.String("file", path), slog.Int("files", len(s.Files)))
	return nil
}

// AddFiles appends paths, made absolute, skipping any already selected.
// It returns the number of files added.
func (s *Session) AddFiles(paths ...string) (int, error) {
	added := 0
	for _, path := range paths {
		absPath, err := util.AbsPath(path)
		if err != nil {
			return added, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		before := len(s.Files)
		s.Files = util.UniqueAppend(s.Files, absPath)
		if len(s.Files) > before {
			added++
		}
	}
	return added, nil
}

// SetFiles replaces the selected files with paths, in order. Repeated paths
// are kept.
func (s *Session) SetFiles(paths ...string) error {
	files := make([]string, 0, len(paths))
	for _, path := range paths {
		absPath, err := util.AbsPath(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		files = append(files, absPath)
	}
	s.Files = files
	return nil
}

// ClearFiles removes every selected file.
func (s *Session) ClearFiles() {
	s.Files = nil
}

// Snapshot returns a copy a run can read without seeing later edits.
func (s *Session) Snapshot() Session {
	snapshot := *s
	snapshot.Files = slices.Clone(s.Files)
	return snapshot
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their session file names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the parameters and output settings. Files are not checked
// here; an empty file list is reported when a run starts.
func (s *Session) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid session: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_if":
		return fmt.Sprintf("%s is required when save_plot is true", fe.Field())
	}
	return fmt.Sprintf("%s failed %s check", fe.Field(), fe.Tag())
}
