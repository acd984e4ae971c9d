package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mrz1836/eureka/internal/config"
	"github.com/mrz1836/eureka/internal/dependency"
	"github.com/mrz1836/eureka/internal/domain"
	"github.com/mrz1836/eureka/internal/store"
	"github.com/mrz1836/eureka/internal/template"
)

// ExecutionContext holds the resolved configuration for command execution
// and builds the collaborators commands work with.
type ExecutionContext struct {
	// Config is the merged configuration.
	Config *config.Config

	// ConfigPath is the explicit --config file, empty when the layered
	// global and project files were used.
	ConfigPath string

	// Metrics is the registry dependency checks are recorded on.
	Metrics *prometheus.Registry

	// templateFiles maps template names to the file they were loaded from.
	templateFiles map[string]string
}

// executionContextKey is the context key for ExecutionContext.
type executionContextKey struct{}

// ResolveExecutionContext loads configuration. An explicit configPath is read
// on its own (plus EUREKA_* environment overrides); otherwise the global and
// project config files are layered.
func ResolveExecutionContext(ctx context.Context, configPath string) (*ExecutionContext, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(ctx, configPath)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ExecutionContext{
		Config:        cfg,
		ConfigPath:    configPath,
		Metrics:       prometheus.NewRegistry(),
		templateFiles: make(map[string]string),
	}, nil
}

// WithExecutionContext returns a new context with the ExecutionContext attached.
func WithExecutionContext(ctx context.Context, ec *ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, ec)
}

// GetExecutionContext retrieves the ExecutionContext from the context.
// Returns nil if no execution context was set.
func GetExecutionContext(ctx context.Context) *ExecutionContext {
	ec, _ := ctx.Value(executionContextKey{}).(*ExecutionContext)
	return ec
}

// executionContext returns the ExecutionContext attached to ctx, resolving
// the default configuration when none is attached.
func executionContext(ctx context.Context) (*ExecutionContext, error) {
	if ec := GetExecutionContext(ctx); ec != nil {
		return ec, nil
	}
	return ResolveExecutionContext(ctx, "")
}

// OpenStore opens the configured task store. The caller closes it.
func (ec *ExecutionContext) OpenStore() (store.TaskStore, error) {
	sc := ec.Config.Store
	st, err := store.Open(store.Options{
		Backend:          sc.Backend,
		Dir:              sc.Dir,
		RedisURL:         sc.RedisURL,
		RedisMaxIdle:     sc.RedisMaxIdle,
		RedisIdleTimeout: sc.RedisIdleTimeout,
		LockTimeout:      sc.LockTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}
	return st, nil
}

// NewService builds the dependency service over st, recording metrics on
// ec.Metrics.
func (ec *ExecutionContext) NewService(st store.TaskStore) (*dependency.Service, error) {
	metrics, err := dependency.NewMetrics(ec.Metrics)
	if err != nil {
		return nil, err
	}
	return dependency.NewService(st,
		dependency.WithMetrics(metrics),
		dependency.WithSnapshot(ec.Config.Dependencies.Snapshot),
	), nil
}

// Registry returns the built-in templates overlaid with every template file
// in the configured templates directory. A file replaces a built-in of the
// same name.
func (ec *ExecutionContext) Registry(ctx context.Context) (*template.Registry, error) {
	registry := template.NewDefaultRegistry()

	err := template.NewLoader("").WalkDir(ec.Config.Templates.Dir, func(path string, t *domain.TaskTemplate) error {
		if err := registry.RegisterOrReplace(t); err != nil {
			return err
		}
		if ec.templateFiles == nil {
			ec.templateFiles = make(map[string]string)
		}
		ec.templateFiles[t.Name] = path
		zerolog.Ctx(ctx).Debug().Str("template", t.Name).Str("path", path).Msg("loaded template")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// TemplatePath is where an edited template named name is saved: the file it
// was loaded from, or <templates.dir>/<name>.yaml for a built-in.
func (ec *ExecutionContext) TemplatePath(name string) string {
	if path, ok := ec.templateFiles[name]; ok {
		return path
	}
	return filepath.Join(ec.Config.Templates.Dir, name+".yaml")
}

// logMetrics writes the gathered dependency metrics at debug level.
func (ec *ExecutionContext) logMetrics(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	families, err := ec.Metrics.Gather()
	if err != nil {
		logger.Debug().Err(err).Msg("failed to gather metrics")
		return
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
		logger.Debug().Str("metric", mf.GetName()).Float64("value", total).Msg("dependency metric")
	}
}
