package stream

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanzxc/go-qrs-monitor/internal/monitor"
)

func TestSampleCodec(t *testing.T) {
	samples := []uint16{0, 1, 865, 4095, 65535}
	b := EncodeSamples(samples)
	require.Len(t, b, 10)
	assert.Equal(t, []byte{0x61, 0x03}, b[4:6])

	got, err := DecodeSamples(b)
	require.NoError(t, err)
	assert.Equal(t, samples, got)

	_, err = DecodeSamples([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrOddPayload)
}

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subject, f.data = subj, data
	return f.err
}

func TestReadingSink(t *testing.T) {
	conn := &fakeConn{}
	sink := ReadingSink{Conn: conn, Subject: "ecg.params"}
	ts := time.UnixMilli(1700000000123)

	r := monitor.Reading{Session: "s1", Seq: 3, Time: ts, BPM: 78, Valid: true, Beats: 6}
	require.NoError(t, sink.Publish(context.Background(), r))
	assert.Equal(t, "ecg.params", conn.subject)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(conn.data, &raw))
	assert.EqualValues(t, 78, raw["hr"])
	assert.EqualValues(t, 1700000000123, raw["ts"])
	assert.Equal(t, true, raw["valid"])

	msg, err := DecodeParamMsg(conn.data)
	require.NoError(t, err)
	assert.Equal(t, r, msg.Reading())
}

func TestReadingSinkError(t *testing.T) {
	conn := &fakeConn{err: nats.ErrConnectionClosed}
	err := ReadingSink{Conn: conn, Subject: "ecg.params"}.Publish(context.Background(), monitor.Reading{})
	assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
}

func TestSampleHandler(t *testing.T) {
	var got []uint16
	h := SampleHandler(func(s uint16) bool {
		got = append(got, s)
		return true
	})

	h(&nats.Msg{Subject: "ecg.wave", Data: EncodeSamples([]uint16{900, 910, 1100})})
	h(&nats.Msg{Subject: "ecg.wave", Data: []byte{1}})
	h(&nats.Msg{Subject: "ecg.wave", Data: EncodeSamples([]uint16{880})})

	assert.Equal(t, []uint16{900, 910, 1100, 880}, got)
}

func TestDecodeParamMsgRejectsGarbage(t *testing.T) {
	_, err := DecodeParamMsg([]byte("{"))
	assert.Error(t, err)
}
