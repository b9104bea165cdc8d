// SPDX-License-Identifier: MIT
// Package logging builds the logrus loggers used across the pipeline.
//
// Library code never logs to stdout by default: every stage starts with
// Discard() and callers opt in via WithLogger options.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/pce"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Field keys shared by every stage.
const (
	FieldStage = "stage"
	FieldRunID = "run_id"
)

// Config selects level and output format.
type Config struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns info-level text logging.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatText}
}

// Validate checks level and format.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging: level %q: %w", c.Level, pce.ErrInvalidConfiguration)
	}
	switch strings.ToLower(c.Format) {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("logging: format %q: %w", c.Format, pce.ErrInvalidConfiguration)
	}
}

// New builds a logger writing to w (os.Stderr when nil).
func New(cfg Config, w io.Writer) (*logrus.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	lvl, _ := logrus.ParseLevel(cfg.Level)

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	if strings.ToLower(cfg.Format) == FormatJSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)

	return l
}

// Stage returns l scoped with the stage field; a nil l yields a discard entry.
func Stage(l logrus.FieldLogger, stage string) logrus.FieldLogger {
	if l == nil {
		l = Discard()
	}

	return l.WithField(FieldStage, stage)
}
