// Package results pairs screens launched for a result with the answer they
// send back, so a late or foreign answer can never be mistaken for the
// current one.
package results

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"projectfeed/internal/domain"
)

// ErrUnknownRequest is returned for results nobody is waiting for
var ErrUnknownRequest = errors.New("unknown result request")

// Status tells how a launched screen finished
type Status int

const (
	StatusOK Status = iota
	StatusCanceled
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "canceled"
}

// Request is handed to the screen that will produce a result
type Request struct {
	ID     uuid.UUID
	Params domain.DiscoveryParams // params the screen starts from
}

// Result is sent back by the screen as a tea.Msg
type Result struct {
	RequestID uuid.UUID
	Status    Status
	Params    domain.DiscoveryParams
}

// OK builds a successful result for the request
func (r Request) OK(params domain.DiscoveryParams) Result {
	return Result{RequestID: r.ID, Status: StatusOK, Params: params}
}

// Cancel builds a canceled result for the request
func (r Request) Cancel() Result {
	return Result{RequestID: r.ID, Status: StatusCanceled}
}

// Broker tracks outstanding requests
type Broker struct {
	mu      sync.Mutex
	pending map[uuid.UUID]struct{}
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{pending: make(map[uuid.UUID]struct{})}
}

// Request registers a new outstanding request
func (b *Broker) Request(params domain.DiscoveryParams) Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.New()
	b.pending[id] = struct{}{}
	return Request{ID: id, Params: params}
}

// Resolve consumes the request a result answers. It returns the params and
// true only for a successful result; canceled results return false.
func (b *Broker) Resolve(r Result) (domain.DiscoveryParams, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.pending[r.RequestID]; !ok {
		return domain.DiscoveryParams{}, false, ErrUnknownRequest
	}
	delete(b.pending, r.RequestID)
	if r.Status != StatusOK {
		return domain.DiscoveryParams{}, false, nil
	}
	return r.Params, true, nil
}

// Pending returns the number of outstanding requests
func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
