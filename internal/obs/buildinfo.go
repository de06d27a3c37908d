package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// buildInfo — gauge fixed at 1, labelled with version and commit.
var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Inventory API build information.",
	},
	[]string{"version", "commit"},
)

// InitBuildInfo registers metrics (once) and publishes build_info{version,commit} 1.
func InitBuildInfo(version, commit string) {
	Init()
	if commit == "" {
		commit = "unknown"
	}
	buildInfo.WithLabelValues(version, commit).Set(1)
}
