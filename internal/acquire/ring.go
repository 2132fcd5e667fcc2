package acquire

import (
	"errors"
	"fmt"
)

var ErrLengthMismatch = errors.New("acquire: buffer length mismatch")

// Ring es el buffer circular de muestras ADC crudas. Tamaño fijo, un único
// cursor de escritura siempre en [0, Len()).
//
// Ring no es seguro para uso concurrente: las escrituras las hace solo el
// Acquirer y la lectura (Snapshot) solo ocurre con la adquisición pausada.
type Ring struct {
	buf    []uint16
	cursor int
}

func NewRing(n int) *Ring {
	if n <= 0 {
		panic(fmt.Sprintf("acquire: ring length %d", n))
	}
	return &Ring{buf: make([]uint16, n)}
}

func (r *Ring) Len() int { return len(r.buf) }

// Cursor es el índice de la próxima escritura, es decir, la muestra más antigua.
func (r *Ring) Cursor() int { return r.cursor }

// Record escribe s en el cursor y lo avanza módulo Len().
func (r *Ring) Record(s uint16) {
	r.buf[r.cursor] = s
	r.cursor++
	if r.cursor == len(r.buf) {
		r.cursor = 0
	}
}

// Snapshot copia el anillo a into desenrollado: into[0] es la muestra más
// antigua e into[Len()-1] la más reciente.
func (r *Ring) Snapshot(into []uint16) error {
	if len(into) != len(r.buf) {
		return fmt.Errorf("%w: ring %d, into %d", ErrLengthMismatch, len(r.buf), len(into))
	}
	n := copy(into, r.buf[r.cursor:])
	copy(into[n:], r.buf[:r.cursor])
	return nil
}
