// Package pool hands out oci sessions to concurrent callers, one caller per
// session at a time.
package pool

import (
	"context"

	"gorm.io/oci"
)

// Manager creates, checks and destroys the sessions of a pool
type Manager interface {
	Connect(ctx context.Context) (*oci.Session, error)
	// IsValid checks liveness when an idle session is checked out
	IsValid(ctx context.Context, s *oci.Session) bool
	Disconnect(s *oci.Session) error
}

// SessionManager opens sessions from a descriptor
type SessionManager struct {
	// Env defaults to the process wide environment
	Env        *oci.Environment
	Descriptor string
	Options    []oci.ConfigOption
}

// NewSessionManager parses descriptor up front so a malformed one fails
// before the pool is used
func NewSessionManager(descriptor string, opts ...oci.ConfigOption) (*SessionManager, error) {
	if _, err := oci.ParseDescriptor(descriptor); err != nil {
		return nil, err
	}
	return &SessionManager{Descriptor: descriptor, Options: opts}, nil
}

func (m *SessionManager) Connect(ctx context.Context) (*oci.Session, error) {
	if m.Env != nil {
		return m.Env.Open(ctx, m.Descriptor, m.Options...)
	}
	return oci.Open(ctx, m.Descriptor, m.Options...)
}

// IsValid pings sessions that are not known to be broken
func (m *SessionManager) IsValid(ctx context.Context, s *oci.Session) bool {
	return !s.IsBroken() && s.Ping(ctx) == nil
}

func (m *SessionManager) Disconnect(s *oci.Session) error {
	return s.Close()
}
