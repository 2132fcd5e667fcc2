package qrs

import (
	"errors"
	"fmt"
	"math"
)

var ErrLengthMismatch = errors.New("qrs: buffer length mismatch")

func checkLen(in, out []uint16) error {
	if len(in) != len(out) {
		return fmt.Errorf("%w: in %d, out %d", ErrLengthMismatch, len(in), len(out))
	}
	return nil
}

// HighPass elimina la deriva de línea base con la diferencia de dos medias
// móviles. M = 1 << shift.
//
//	y1[n] = (1/M) * Σ data[n-m], m = 0..M-1
//	y2[n] = data[n - (M+1)/2]
//	out[n] = max(y2[n] - y1[n], 0)
//
// Los índices negativos se sustituyen por 0 (se replica la primera muestra).
func HighPass(data, out []uint16, shift int) error {
	if err := checkLen(data, out); err != nil {
		return err
	}
	m := 1 << shift
	delay := (m + 1) / 2

	for n := range data {
		var sum uint32
		for k := 0; k < m; k++ {
			sum += uint32(data[max(n-k, 0)])
		}
		y1 := uint16(sum >> shift)
		y2 := data[max(n-delay, 0)]

		if y2 > y1 {
			out[n] = y2 - y1
		} else {
			out[n] = 0
		}
	}
	return nil
}

// LowPass es el filtro no lineal de energía: suma de los cuadrados de window
// muestras a partir de n. Los índices más allá del final repiten la última
// muestra. La suma satura en math.MaxUint16.
func LowPass(hp, out []uint16, window int) error {
	if err := checkLen(hp, out); err != nil {
		return err
	}
	last := len(hp) - 1

	for n := range hp {
		var z uint64
		for i := n; i < n+window; i++ {
			v := uint64(hp[min(i, last)])
			z += v * v
		}

		if z > math.MaxUint16 {
			out[n] = math.MaxUint16
		} else {
			out[n] = uint16(z)
		}
	}
	return nil
}

// peak devuelve el máximo de data[first:last], con last acotado a len(data).
func peak(data []uint16, first, last int) uint16 {
	last = min(last, len(data))
	var p uint16
	for i := first; i < last; i++ {
		if data[i] > p {
			p = data[i]
		}
	}
	return p
}
