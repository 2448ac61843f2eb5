// Package env carries the explicit, process-wide dependencies spec §5/§6
// name: the read-only site configuration, the about-ID allocator, the
// logger, and the narrow page-data-access interface of the external
// collaborators the core does not implement (the tokenizer interface
// lives in internal/attrexpand). There are no ambient singletons; every dependency is passed
// down explicitly (spec §9 "Global state").
package env

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LintEntry is one warning recorded for the page bundle's linter-data
// channel (spec §7 "logLinterData").
type LintEntry struct {
	Kind    string
	Message string
	DSR     *[4]int
}

// Env bundles the dependencies a pipeline stage needs. A new Env is
// created per document/transformation (spec §5 "owned strictly by a
// single in-flight transformation"); the about-ID counter and node-ID
// counter are partitioned per document for reproducibility.
type Env struct {
	Site   *SiteConfig
	Logger *zap.Logger

	// RunID correlates every log line emitted during one transformation;
	// grounded on the pack's use of github.com/google/uuid for
	// session/request correlation IDs (BlackVectorOps-scalpel-cli).
	RunID string

	aboutCounter uint64
	nodeCounter  uint64

	Lints []LintEntry
}

// New builds an Env with a fresh RunID. logger may be nil, in which case
// a no-op logger is used.
func New(site *SiteConfig, logger *zap.Logger) *Env {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Env{
		Site:   site,
		Logger: logger,
		RunID:  uuid.NewString(),
	}
}

// NewAboutId allocates the next "#mwtN" encapsulation about-ID (spec §6
// "Environment... about-ID allocator"). Monotonic, atomic fetch-add per
// spec §5.
func (e *Env) NewAboutId() string {
	n := atomic.AddUint64(&e.aboutCounter, 1)
	return fmt.Sprintf("#mwt%d", n)
}

// NextNodeID allocates the next process-unique (per-document) integer
// node ID (spec §3.3, §3.5).
func (e *Env) NextNodeID() uint64 {
	return atomic.AddUint64(&e.nodeCounter, 1)
}

// Log emits a structured log line at the given level (spec §6
// "logger(level, msg)"). level is one of "debug", "info", "warn", "error".
func (e *Env) Log(level, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("runID", e.RunID))
	switch level {
	case "debug":
		e.Logger.Debug(msg, fields...)
	case "warn":
		e.Logger.Warn(msg, fields...)
	case "error":
		e.Logger.Error(msg, fields...)
	default:
		e.Logger.Info(msg, fields...)
	}
}

// Warnf logs a warning and appends it to the linter-data channel, per
// spec §7's "top-level driver aggregates warnings into the page bundle's
// linter data channel via logLinterData".
func (e *Env) Warnf(kind, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.Log("warn", msg, zap.String("lintKind", kind))
	e.Lints = append(e.Lints, LintEntry{Kind: kind, Message: msg})
}
