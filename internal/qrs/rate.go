package qrs

// Rate es una frecuencia cardiaca en BPM. Valid es false cuando el ciclo no
// detectó suficientes latidos; en ese caso BPM es 0.
type Rate struct {
	BPM   uint16
	Valid bool
}

// NoRate es el centinela de "sin frecuencia válida".
var NoRate = Rate{}

// EstimateRate promedia las frecuencias instantáneas numerator/intervalo de
// intervals[1:]. El primer intervalo se descarta: mide desde el inicio de la
// ventana, no entre latidos. Con menos de dos latidos devuelve NoRate.
func EstimateRate(intervals []uint16, numerator uint32) Rate {
	if len(intervals) <= 1 {
		return NoRate
	}

	var sum uint32
	count := uint32(0)
	for _, iv := range intervals[1:] {
		if iv == 0 {
			continue
		}
		sum += numerator / uint32(iv)
		count++
	}
	if count == 0 {
		return NoRate
	}

	bpm := sum / count
	if bpm > 0xFFFF {
		bpm = 0xFFFF
	}
	return Rate{BPM: uint16(bpm), Valid: true}
}

// Clamp limita BPM a maxRate.
func (r Rate) Clamp(maxRate uint16) Rate {
	if r.BPM > maxRate {
		r.BPM = maxRate
	}
	return r
}
