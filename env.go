package oci

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

// Environment tracks the sessions opened through it and the godror
// connectors they share. Shutdown closes them and refuses any later Open.
type Environment struct {
	mux        sync.RWMutex
	sessions   map[string]*Session
	connectors map[string]driver.Connector
	closed     bool

	initOnce     sync.Once
	shutdownOnce sync.Once
	shutdownErr  error
}

var defaultEnv = NewEnvironment()

// NewEnvironment returns an environment; it is initialized on first use
func NewEnvironment() *Environment {
	return &Environment{}
}

// Init prepares the process wide environment; calling it again does nothing.
// Open calls it implicitly.
func Init() {
	defaultEnv.init()
}

// Shutdown closes every session of the process wide environment, once
func Shutdown() error {
	return defaultEnv.Shutdown()
}

// Open connects a session in the process wide environment
func Open(ctx context.Context, descriptor string, opts ...ConfigOption) (*Session, error) {
	return defaultEnv.Open(ctx, descriptor, opts...)
}

func (e *Environment) init() {
	e.initOnce.Do(func() {
		e.mux.Lock()
		e.sessions = make(map[string]*Session)
		e.connectors = make(map[string]driver.Connector)
		e.mux.Unlock()
	})
}

// connector returns the godror connector for desc. Connection parameters
// are parsed once per database and the connector is shared by its sessions.
func (e *Environment) connector(desc Descriptor) (driver.Connector, error) {
	e.init()
	key := desc.GodrorDSN()

	e.mux.Lock()
	defer e.mux.Unlock()
	if e.closed {
		return nil, ErrEnvironmentClosed
	}
	if connector, ok := e.connectors[key]; ok {
		return connector, nil
	}
	connector, err := desc.Connector()
	if err != nil {
		return nil, err
	}
	e.connectors[key] = connector
	return connector, nil
}

// add registers s, failing once the environment is shut down
func (e *Environment) add(s *Session) error {
	e.mux.Lock()
	defer e.mux.Unlock()
	if e.closed {
		return ErrEnvironmentClosed
	}
	e.sessions[s.ID] = s
	return nil
}

func (e *Environment) isClosed() bool {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.closed
}

func (e *Environment) remove(s *Session) {
	e.mux.Lock()
	defer e.mux.Unlock()
	delete(e.sessions, s.ID)
}

// Len is the number of open sessions
func (e *Environment) Len() int {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return len(e.sessions)
}

// Shutdown closes every open session. Later calls return the first result.
func (e *Environment) Shutdown() error {
	e.shutdownOnce.Do(func() {
		e.init()
		e.mux.Lock()
		e.closed = true
		sessions := make([]*Session, 0, len(e.sessions))
		for _, s := range e.sessions {
			sessions = append(sessions, s)
		}
		connectors := e.connectors
		e.connectors = map[string]driver.Connector{}
		e.mux.Unlock()

		errs := make([]error, 0, len(sessions))
		for _, s := range sessions {
			if err := s.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		for _, connector := range connectors {
			if closer, ok := connector.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					errs = append(errs, err)
				}
			}
		}
		e.shutdownErr = errors.Join(errs...)
	})
	return e.shutdownErr
}
