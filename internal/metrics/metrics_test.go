package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/sessions", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/sessions", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordHTTPRequestMultiple(t *testing.T) {
	HTTPRequestsTotal.Reset()

	RecordHTTPRequest("POST", "/api/auth/login", "200", 0.1)
	RecordHTTPRequest("POST", "/api/auth/login", "200", 0.2)
	RecordHTTPRequest("POST", "/api/auth/login", "401", 0.05)

	successCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/auth/login", "200"))
	failCount := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/auth/login", "401"))

	assert.Equal(t, float64(2), successCount)
	assert.Equal(t, float64(1), failCount)
}

func TestRecordSessionBooked(t *testing.T) {
	SessionsBookedTotal.Reset()

	RecordSessionBooked("booked")
	RecordSessionBooked("booked")
	RecordSessionBooked("conflict")

	booked := testutil.ToFloat64(SessionsBookedTotal.WithLabelValues("booked"))
	conflict := testutil.ToFloat64(SessionsBookedTotal.WithLabelValues("conflict"))

	assert.Equal(t, float64(2), booked)
	assert.Equal(t, float64(1), conflict)
}

func TestRecordSessionCancellation(t *testing.T) {
	testCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gympro_session_cancellations_total_test",
			Help: "Total number of session cancellations",
		},
	)

	oldCounter := SessionCancellationsTotal
	SessionCancellationsTotal = testCounter
	defer func() { SessionCancellationsTotal = oldCounter }()

	RecordSessionCancellation()
	RecordSessionCancellation()

	count := testutil.ToFloat64(testCounter)
	assert.Equal(t, float64(2), count)
}

func TestRecordCheckIn(t *testing.T) {
	CheckInsTotal.Reset()

	RecordCheckIn("qr", "ok")
	RecordCheckIn("manual", "ok")
	RecordCheckIn("qr", "rejected")

	qrOK := testutil.ToFloat64(CheckInsTotal.WithLabelValues("qr", "ok"))
	manualOK := testutil.ToFloat64(CheckInsTotal.WithLabelValues("manual", "ok"))
	qrRejected := testutil.ToFloat64(CheckInsTotal.WithLabelValues("qr", "rejected"))

	assert.Equal(t, float64(1), qrOK)
	assert.Equal(t, float64(1), manualOK)
	assert.Equal(t, float64(1), qrRejected)
}

func TestRecordPayment(t *testing.T) {
	PaymentsTotal.Reset()

	RecordPayment("membership", "completed")
	RecordPayment("supplement", "completed")
	RecordPayment("membership", "refunded")

	membership := testutil.ToFloat64(PaymentsTotal.WithLabelValues("membership", "completed"))
	supplement := testutil.ToFloat64(PaymentsTotal.WithLabelValues("supplement", "completed"))
	refunded := testutil.ToFloat64(PaymentsTotal.WithLabelValues("membership", "refunded"))

	assert.Equal(t, float64(1), membership)
	assert.Equal(t, float64(1), supplement)
	assert.Equal(t, float64(1), refunded)
}

func TestRecordSweep(t *testing.T) {
	SweepRowsAffected.Reset()

	RecordSweep("expire_memberships", 5)
	RecordSweep("expire_memberships", 2)
	RecordSweep("mark_no_shows", 3)

	expired := testutil.ToFloat64(SweepRowsAffected.WithLabelValues("expire_memberships"))
	noShows := testutil.ToFloat64(SweepRowsAffected.WithLabelValues("mark_no_shows"))

	assert.Equal(t, float64(7), expired)
	assert.Equal(t, float64(3), noShows)
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("generic", "sent")
	RecordEmail("generic", "failed")
	RecordEmail("generic", "sent")

	sent := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("generic", "sent"))
	failed := testutil.ToFloat64(EmailsSentTotal.WithLabelValues("generic", "failed"))

	assert.Equal(t, float64(2), sent)
	assert.Equal(t, float64(1), failed)
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
