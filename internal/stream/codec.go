package stream

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ivanzxc/go-qrs-monitor/internal/monitor"
)

var ErrOddPayload = errors.New("stream: sample payload has odd length")

// EncodeSamples serializa muestras como uint16 little-endian.
func EncodeSamples(samples []uint16) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}

// DecodeSamples es la inversa de EncodeSamples.
func DecodeSamples(b []byte) ([]uint16, error) {
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrOddPayload, len(b))
	}
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out, nil
}

// ParamMsg es la frecuencia publicada en el subject de parámetros.
type ParamMsg struct {
	Subject string `json:"subject"`
	Session string `json:"session"`
	Seq     uint64 `json:"seq"`
	Ts      int64  `json:"ts"`
	HR      int    `json:"hr"`
	Valid   bool   `json:"valid"`
	Beats   int    `json:"beats"`
}

func NewParamMsg(subject string, r monitor.Reading) ParamMsg {
	return ParamMsg{
		Subject: subject,
		Session: r.Session,
		Seq:     r.Seq,
		Ts:      r.Time.UnixMilli(),
		HR:      int(r.BPM),
		Valid:   r.Valid,
		Beats:   r.Beats,
	}
}

// Reading reconstruye la lectura; Time queda con precisión de milisegundos.
func (m ParamMsg) Reading() monitor.Reading {
	return monitor.Reading{
		Session: m.Session,
		Seq:     m.Seq,
		Time:    time.UnixMilli(m.Ts),
		BPM:     uint16(m.HR),
		Valid:   m.Valid,
		Beats:   m.Beats,
	}
}

func DecodeParamMsg(b []byte) (ParamMsg, error) {
	var m ParamMsg
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("stream: decode params: %w", err)
	}
	return m, nil
}
