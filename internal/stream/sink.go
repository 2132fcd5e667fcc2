package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ivanzxc/go-qrs-monitor/internal/monitor"
)

// Publisher es la parte de *nats.Conn que usa ReadingSink.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// ReadingSink publica cada lectura como ParamMsg JSON.
type ReadingSink struct {
	Conn    Publisher
	Subject string
}

func (s ReadingSink) Publish(_ context.Context, r monitor.Reading) error {
	b, err := json.Marshal(NewParamMsg(s.Subject, r))
	if err != nil {
		return err
	}
	if err := s.Conn.Publish(s.Subject, b); err != nil {
		return fmt.Errorf("stream: publish %s: %w", s.Subject, err)
	}
	return nil
}
