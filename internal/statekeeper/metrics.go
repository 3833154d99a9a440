package statekeeper

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// newSwitchDurationHistogram creates the "switch-duration" histogram recorded
// once per completed switch or rollback attempt (§4.9 item 7).
func newSwitchDurationHistogram() (metric.Float64Histogram, error) {
	meter := otel.Meter("nixless-agent/statekeeper")
	return meter.Float64Histogram(
		"switch-duration",
		metric.WithDescription("time from switch task start to a terminal switch outcome"),
		metric.WithUnit("s"),
	)
}

// recordSwitchDurationMetric records d against k.switchDuration, tagged with
// whether the switch ultimately succeeded.
func (k *StateKeeper) recordSwitchDurationMetric(ctx context.Context, d time.Duration, success bool) {
	if k.switchDuration == nil {
		return
	}
	k.switchDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.Bool("success", success)))
}
