package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncHTTP("book_package", "200")
	})
}

func TestMailSendCounter(t *testing.T) {
	before := testutil.ToFloat64(mailSends.WithLabelValues("admin", "error"))
	IncMailSend("admin", "error")
	after := testutil.ToFloat64(mailSends.WithLabelValues("admin", "error"))

	assert.Equal(t, before+1, after)
}

func TestBookingOutcomeCounter(t *testing.T) {
	before := testutil.ToFloat64(bookingOutcomes.WithLabelValues("full_success"))
	IncBookingOutcome("full_success")
	IncBookingOutcome("full_success")

	assert.Equal(t, before+2, testutil.ToFloat64(bookingOutcomes.WithLabelValues("full_success")))
}
