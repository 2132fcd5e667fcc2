package monitor

import "fmt"

// State es el estado del ciclo de detección.
type State int32

// Idle -> Snapshot (copia del ring) -> Detect (filtros y detección) ->
// Publish (entrega al sink) -> Idle.
const (
	StateIdle State = iota
	StateSnapshot
	StateDetect
	StatePublish
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSnapshot:
		return "snapshot"
	case StateDetect:
		return "detect"
	case StatePublish:
		return "publish"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}
