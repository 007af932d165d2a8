package cli

import (
	"encoding/json"
	"io"

	"lifetrack/internal/metrics"
)

const (
	metricsPrometheus = "prometheus"
	metricsExpvar     = "expvar"
)

// writeMetrics dumps what the invocation's stores recorded, in the format
// chosen by --metrics.
func (a *app) writeMetrics(w io.Writer) error {
	if a.flags.metrics == "" || a.registry == nil {
		return nil
	}
	switch a.flags.metrics {
	case metricsPrometheus:
		return metrics.WriteText(w, a.registry)
	case metricsExpvar:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a.expvar.Snapshot())
	}
	return usagef("unknown metrics format %q", a.flags.metrics)
}
