package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewRegistry returns a registry with build info, go runtime and process collectors,
// plus any storage specific collectors (e.g. the postgres pool stats).
func NewRegistry(extraCollectors ...prometheus.Collector) (*prometheus.Registry, error) {
	promRegistry := prometheus.NewRegistry()

	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	for _, c := range extraCollectors {
		if c == nil {
			continue
		}
		if err := promRegistry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector [%T]: %w", c, err)
		}
	}

	return promRegistry, nil
}
