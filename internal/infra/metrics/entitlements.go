package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"memorial-platform/internal/domain/model"
)

func init() { register(entitlementChecksTotal) }

var entitlementChecksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "entitlement_checks_total",
		Help: "Feature access checks by feature and verdict.",
	},
	[]string{"feature", "allowed"},
)

func IncEntitlementCheck(f model.Feature, allowed bool) {
	entitlementChecksTotal.WithLabelValues(norm(string(f)), strconv.FormatBool(allowed)).Inc()
}
