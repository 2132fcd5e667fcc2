package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTick(t *testing.T) {
	ticks := testutil.ToFloat64(ticksTotal)
	ignored := testutil.ToFloat64(ticksIgnoredTotal)

	RecordTick(false)
	RecordTick(true)

	assert.Equal(t, ticks+2, testutil.ToFloat64(ticksTotal))
	assert.Equal(t, ignored+1, testutil.ToFloat64(ticksIgnoredTotal))
}

func TestRecordCycle(t *testing.T) {
	withRate := testutil.ToFloat64(cyclesTotal.WithLabelValues(OutcomeRate))
	noRate := testutil.ToFloat64(cyclesTotal.WithLabelValues(OutcomeNoRate))
	beats := testutil.ToFloat64(beatsDetectedTotal)

	RecordCycle(78, true, 6, 3*time.Millisecond)
	assert.Equal(t, 78.0, testutil.ToFloat64(heartRateBPM))

	RecordCycle(0, false, 1, time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(heartRateBPM))

	assert.Equal(t, withRate+1, testutil.ToFloat64(cyclesTotal.WithLabelValues(OutcomeRate)))
	assert.Equal(t, noRate+1, testutil.ToFloat64(cyclesTotal.WithLabelValues(OutcomeNoRate)))
	assert.Equal(t, beats+7, testutil.ToFloat64(beatsDetectedTotal))
}

func TestRecordSamples(t *testing.T) {
	recorded := testutil.ToFloat64(samplesRecordedTotal)
	dropped := testutil.ToFloat64(samplesDroppedTotal)

	RecordSample()
	RecordSample()
	RecordDroppedSample()

	assert.Equal(t, recorded+2, testutil.ToFloat64(samplesRecordedTotal))
	assert.Equal(t, dropped+1, testutil.ToFloat64(samplesDroppedTotal))
}
