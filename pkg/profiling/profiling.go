// Package profiling pushes continuous profiles to a Pyroscope server.
package profiling

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/certiswift/certiswift-api/config"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

const (
	defaultAppName        = "certiswift-api"
	defaultUploadInterval = 15 * time.Second
)

var errNoEndpoint = errors.New("profiling endpoint is required when profiling is enabled")

// sampleGroups lists the accepted O11Y_PROFILING_SAMPLE_TYPES names in default order
var sampleGroups = []struct {
	name  string
	types []pyroscope.ProfileType
}{
	{"cpu", []pyroscope.ProfileType{pyroscope.ProfileCPU}},
	{"alloc_space", []pyroscope.ProfileType{pyroscope.ProfileAllocSpace}},
	{"alloc_objects", []pyroscope.ProfileType{pyroscope.ProfileAllocObjects}},
	{"goroutines", []pyroscope.ProfileType{pyroscope.ProfileGoroutines}},
	{"mutex", []pyroscope.ProfileType{pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration}},
	{"block", []pyroscope.ProfileType{pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration}},
}

func sampleGroup(name string) ([]pyroscope.ProfileType, bool) {
	for _, g := range sampleGroups {
		if g.name == name {
			return g.types, true
		}
	}
	return nil, false
}

// InitProfiler starts the profiler when enabled. The returned stop func is never nil on success.
func InitProfiler(cfg config.ProfilingConfig, o11y config.ObservabilityConfig, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	opts, err := buildConfig(cfg, o11y, environment)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger.Log.Sugar()

	profiler, err := pyroscope.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("app", opts.ApplicationName),
		zap.String("endpoint", opts.ServerAddress),
		zap.Int("profile_types", len(opts.ProfileTypes)),
		zap.Duration("upload_rate", opts.UploadRate),
	)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

// buildConfig maps service configuration onto a pyroscope config. Service identity
// goes into tags rather than the application name.
func buildConfig(cfg config.ProfilingConfig, o11y config.ObservabilityConfig, environment string) (pyroscope.Config, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return pyroscope.Config{}, errNoEndpoint
	}

	types, err := parseProfileTypes(cfg.SampleTypes)
	if err != nil {
		return pyroscope.Config{}, err
	}

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = defaultAppName
	}

	uploadRate := time.Duration(cfg.UploadIntervalSeconds) * time.Second
	if uploadRate <= 0 {
		uploadRate = defaultUploadInterval
	}

	return pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   endpoint,
		UploadRate:      uploadRate,
		ProfileTypes:    types,
		Tags:            serviceTags(o11y, environment),
	}, nil
}

// serviceTags drops empty values; pyroscope rejects empty tag values
func serviceTags(o11y config.ObservabilityConfig, environment string) map[string]string {
	tags := make(map[string]string, 5)
	for k, v := range map[string]string{
		"service_name":    o11y.ServiceName,
		"namespace":       o11y.ServiceNamespace,
		"environment":     environment,
		"service_version": o11y.ServiceVersion,
		"instance":        o11y.ServiceInstanceID,
	} {
		if v = strings.TrimSpace(v); v != "" {
			tags[k] = v
		}
	}
	return tags
}

// parseProfileTypes reads a comma separated list of sample group names.
// An empty list selects every group.
func parseProfileTypes(value string) ([]pyroscope.ProfileType, error) {
	var names []string
	for _, raw := range strings.Split(value, ",") {
		if name := strings.ToLower(strings.TrimSpace(raw)); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = make([]string, 0, len(sampleGroups))
		for _, g := range sampleGroups {
			names = append(names, g.name)
		}
	}

	var types []pyroscope.ProfileType
	added := make(map[pyroscope.ProfileType]bool)
	for _, name := range names {
		group, ok := sampleGroup(name)
		if !ok {
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", name)
		}
		for _, t := range group {
			if !added[t] {
				added[t] = true
				types = append(types, t)
			}
		}
	}
	return types, nil
}
