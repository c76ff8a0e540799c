package state

import "errors"

// ErrSuperseded se devuelve cuando la respuesta llegó después de otra petición más reciente del
// mismo tipo y fue descartada sin tocar el estado.
var ErrSuperseded = errors.New("state: respuesta descartada por una petición más reciente")

// opKind agrupa las operaciones que compiten entre sí: solo la última despachada puede
// aplicar su resultado.
type opKind string

const (
	opCatalog     opKind = "catalog"
	opSession     opKind = "session"
	opPassword    opKind = "session/password"
	opPublicFeed  opKind = "feed/public"
	opUserOrders  opKind = "feed/user"
	opCreateOrder opKind = "feed/create"
	opResolve     opKind = "feed/resolve"
)

// requestLedger contador monotónico por tipo de operación. Se usa siempre bajo Container.mu.
type requestLedger struct {
	latest map[opKind]uint64
}

func (l *requestLedger) begin(kind opKind) uint64 {
	if l.latest == nil {
		l.latest = make(map[opKind]uint64)
	}
	l.latest[kind]++
	return l.latest[kind]
}

func (l *requestLedger) isLatest(kind opKind, token uint64) bool {
	return l.latest[kind] == token
}
