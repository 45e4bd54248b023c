package pool

import (
	"context"
	"errors"
	"sync"

	"gorm.io/oci"
	"gorm.io/oci/logger"
)

// ErrPoolClosed Get or Put after Close
var ErrPoolClosed = errors.New("pool closed")

// Config pool config
type Config struct {
	// MaxOpen bounds idle plus checked out sessions, 0 for no bound
	MaxOpen int
	// MaxIdle sessions are kept for reuse, the rest are disconnected on Put
	MaxIdle int
	Logger  logger.Interface
}

// Pool keeps idle sessions for reuse and bounds how many are open
type Pool struct {
	manager Manager
	config  Config

	idle  chan *oci.Session
	slots chan struct{}

	mux    sync.Mutex
	closed bool
}

// New returns an empty pool; sessions are connected on demand
func New(manager Manager, config Config) *Pool {
	if config.MaxIdle <= 0 {
		config.MaxIdle = 2
	}
	if config.MaxOpen > 0 && config.MaxIdle > config.MaxOpen {
		config.MaxIdle = config.MaxOpen
	}
	if config.Logger == nil {
		config.Logger = logger.Discard
	}

	p := &Pool{
		manager: manager,
		config:  config,
		idle:    make(chan *oci.Session, config.MaxIdle),
	}
	if config.MaxOpen > 0 {
		p.slots = make(chan struct{}, config.MaxOpen)
	}
	return p
}

// Get checks out a session, reusing a valid idle one or connecting a new
// one. With MaxOpen sessions out it blocks until one is returned or ctx ends.
func (p *Pool) Get(ctx context.Context) (*oci.Session, error) {
	for {
		if p.isClosed() {
			return nil, ErrPoolClosed
		}

		s, err := p.take(ctx)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return p.connect(ctx)
		}
		if p.manager.IsValid(ctx, s) {
			return s, nil
		}
		p.config.Logger.Warn(ctx, "pool: dropping invalid session %s", s.ID)
		p.disconnect(s)
	}
}

// take pops an idle session, or reserves a slot for a new one and returns nil
func (p *Pool) take(ctx context.Context) (*oci.Session, error) {
	select {
	case s := <-p.idle:
		return s, nil
	default:
	}
	if p.slots == nil {
		return nil, nil
	}

	select {
	case s := <-p.idle:
		return s, nil
	case p.slots <- struct{}{}:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// connect opens a session in the slot the caller already holds
func (p *Pool) connect(ctx context.Context) (*oci.Session, error) {
	s, err := p.manager.Connect(ctx)
	if err != nil {
		p.release()
		return nil, err
	}
	return s, nil
}

// Put returns a checked out session. Broken sessions, including ones left
// inside a transaction, are disconnected instead of kept.
func (p *Pool) Put(s *oci.Session) {
	if s == nil {
		return
	}
	if s.IsBroken() || !p.park(s) {
		p.disconnect(s)
	}
}

// park queues s as idle unless the pool is closed or full. It holds the
// lock Close takes before draining, so nothing is queued after the drain.
func (p *Pool) park(s *oci.Session) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.idle <- s:
		return true
	default:
		return false
	}
}

func (p *Pool) disconnect(s *oci.Session) {
	if err := p.manager.Disconnect(s); err != nil {
		p.config.Logger.Warn(context.Background(), "pool: disconnect %s: %v", s.ID, err)
	}
	p.release()
}

func (p *Pool) release() {
	if p.slots != nil {
		<-p.slots
	}
}

// Idle is the number of idle sessions
func (p *Pool) Idle() int {
	return len(p.idle)
}

// Open is the number of idle plus checked out sessions, -1 when unbounded
func (p *Pool) Open() int {
	if p.slots == nil {
		return -1
	}
	return len(p.slots)
}

func (p *Pool) isClosed() bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.closed
}

// Close disconnects the idle sessions; sessions still checked out are
// disconnected when they are put back
func (p *Pool) Close() {
	p.mux.Lock()
	p.closed = true
	p.mux.Unlock()

	for {
		select {
		case s := <-p.idle:
			p.disconnect(s)
		default:
			return
		}
	}
}
