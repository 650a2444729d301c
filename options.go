package ggdoc

import "log/slog"

// WorkspaceOption configures a Workspace during creation.
//
// Example:
//
//	// Defaults: DefaultConfig, DefaultLocker, GOMAXPROCS workers
//	ws := ggdoc.NewWorkspace(doc)
//
//	// Private locker and a config file
//	cfg, _ := ggdoc.LoadConfig("ggdoc.yaml")
//	ws := ggdoc.NewWorkspace(doc, ggdoc.WithConfig(cfg), ggdoc.WithLocker(ggdoc.NewLocker()))
type WorkspaceOption func(*workspaceOptions)

// workspaceOptions holds optional configuration for Workspace creation.
type workspaceOptions struct {
	config  *Config
	locker  *Locker
	logger  *slog.Logger
	workers int
}

// defaultOptions returns the default workspace options.
func defaultOptions() workspaceOptions {
	return workspaceOptions{
		config: nil, // DefaultConfig when nil
		locker: nil, // DefaultLocker when nil
	}
}

// WithConfig sets the history tunables. A nil config keeps the defaults.
func WithConfig(cfg *Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.config = cfg
	}
}

// WithLocker sets the payload registry used by mementos of this workspace.
// Tests use it to observe reachability in isolation.
func WithLocker(l *Locker) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.locker = l
	}
}

// WithLogger sets a logger for this workspace only. Without it the workspace
// logs through the package logger (see SetLogger).
func WithLogger(l *slog.Logger) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.logger = l
	}
}

// WithWorkers overrides Config.Workers, the pixel worker pool size.
func WithWorkers(n int) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.workers = n
	}
}
