package stream

import (
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/ivanzxc/go-qrs-monitor/internal/logging"
)

// SampleHandler decodifica lotes de muestras y entrega cada una a record en
// orden. Los lotes mal formados se descartan.
func SampleHandler(record func(uint16) bool) nats.MsgHandler {
	log := logging.Component("stream")
	return func(msg *nats.Msg) {
		handleSamples(log, msg, record)
	}
}

func handleSamples(log zerolog.Logger, msg *nats.Msg, record func(uint16) bool) {
	samples, err := DecodeSamples(msg.Data)
	if err != nil {
		log.Warn().Err(err).Str("subject", msg.Subject).Msg("bad sample batch")
		return
	}
	for _, s := range samples {
		record(s)
	}
}

// SubscribeSamples conecta el subject de ondas con record.
func SubscribeSamples(nc *nats.Conn, subject string, record func(uint16) bool) (*nats.Subscription, error) {
	return nc.Subscribe(subject, SampleHandler(record))
}
