package signal

import (
	"context"
	"time"
)

// Drive lee s a rate Hz y entrega las muestras a emit en lotes de batch.
// El slice se reutiliza cuando emit retorna. Vuelve cuando ctx termina.
func Drive(ctx context.Context, s Sampler, rate, batch int, emit func([]uint16)) error {
	if batch < 1 {
		batch = 1
	}
	period := time.Second / time.Duration(rate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	buffer := make([]uint16, 0, batch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			buffer = append(buffer, s.Sample())

			if len(buffer) >= batch {
				emit(buffer)
				buffer = buffer[:0]
			}
		}
	}
}
