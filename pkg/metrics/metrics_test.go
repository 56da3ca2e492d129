package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordAvailability(t *testing.T) {
	m := NewWithRegisterer("spa", prometheus.NewRegistry())

	m.RecordAvailability("CAPACITY_EXCEEDED")
	m.RecordAvailability("CAPACITY_EXCEEDED")
	m.RecordAvailability("")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AvailabilityDecisions.WithLabelValues("CAPACITY_EXCEEDED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AvailabilityDecisions.WithLabelValues("AVAILABLE")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordAvailability("SLOT_NOT_OFFERED")
		m.RecordDiscount("romantic")
		m.RecordBookings("checkout", 2)
	})
}

func TestMetrics_RecordBookings(t *testing.T) {
	m := NewWithRegisterer("spa", prometheus.NewRegistry())

	m.RecordBookings("checkout", 3)
	m.RecordBookings("checkout", 0)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("checkout")))
}
