// Package oci connects to Oracle and runs the statements built by the
// dialect package, converting values with the codec package.
//
// A Session owns one native connection and is not safe for concurrent use;
// a call made while another is in flight fails with ErrConcurrentUse.
package oci

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"gorm.io/oci/clause"
	"gorm.io/oci/codec"
	"gorm.io/oci/dialect"
	"gorm.io/oci/errtranslator"
	"gorm.io/oci/internal/stmt_store"
	"gorm.io/oci/logger"
	"gorm.io/oci/types"
)

// State of a session
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateInTransaction
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateInTransaction:
		return "in transaction"
	}
	return "disconnected"
}

// Session is one connection to Oracle
type Session struct {
	ID         string
	Descriptor Descriptor
	Config     *Config

	codec   *codec.Codec
	builder dialect.Oracle
	env     *Environment

	conn  driver.Conn
	stmts *stmt_store.Store
	tx    driver.Tx

	inUse     atomic.Bool
	closed    atomic.Bool
	broken    atomic.Bool
	closeOnce sync.Once
	closeErr  error

	savepoints int
	rows       map[*Rows]struct{}
}

// Open connects a session in e. Any failure is a *ConnectError and leaves
// no native resource open.
func (e *Environment) Open(ctx context.Context, descriptor string, opts ...ConfigOption) (*Session, error) {
	e.init()
	config := newConfig(opts)

	desc, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	if e.isClosed() {
		return nil, &ConnectError{Descriptor: desc.String(), Err: ErrEnvironmentClosed}
	}

	connector := config.Connector
	if connector == nil {
		if connector, err = e.connector(desc); err != nil {
			return nil, &ConnectError{Descriptor: desc.String(), Err: err}
		}
	}

	s := &Session{
		ID:         uuid.NewString(),
		Descriptor: desc,
		Config:     config,
		codec:      codec.New(config.TimeZone, config.InlineLOBThreshold),
		env:        e,
		stmts:      stmt_store.New(config.StmtCacheSize, config.StmtCacheTTL),
		rows:       map[*Rows]struct{}{},
	}
	s.stmts.OnClose = func(sql string, err error) {
		if err != nil {
			s.Config.Logger.Warn(s.context(context.Background()), "closing statement %q: %v", sql, err)
		}
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	begin := config.NowFunc()
	conn, err := connector.Connect(callCtx)
	if err != nil {
		err = config.Translator.Translate(err)
		s.trace(ctx, begin, "CONNECT "+desc.String(), nil, -1, err)
		return nil, &ConnectError{Descriptor: desc.String(), Err: err}
	}
	s.conn = conn

	for _, sql := range config.InitStatements {
		if err = s.execDirect(callCtx, sql); err != nil {
			break
		}
	}
	if err == nil {
		err = e.add(s)
	}
	if err != nil {
		s.closed.Store(true)
		return nil, &ConnectError{Descriptor: desc.String(), Err: errors.Join(err, conn.Close())}
	}

	s.trace(ctx, begin, "CONNECT "+desc.String(), nil, -1, nil)
	return s, nil
}

// State reports the session state
func (s *Session) State() State {
	switch {
	case s.closed.Load():
		return StateDisconnected
	case s.tx != nil:
		return StateInTransaction
	}
	return StateConnected
}

// enter marks the session busy; the returned func releases it
func (s *Session) enter() (func(), error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if !s.inUse.CompareAndSwap(false, true) {
		return nil, ErrConcurrentUse
	}
	if s.closed.Load() {
		s.inUse.Store(false)
		return nil, ErrSessionClosed
	}
	return func() { s.inUse.Store(false) }, nil
}

func (s *Session) context(ctx context.Context) context.Context {
	return logger.WithSession(ctx, s.ID)
}

// callContext applies Config.CallTimeout to ctx
func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Config.CallTimeout > 0 {
		return context.WithTimeout(ctx, s.Config.CallTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Session) trace(ctx context.Context, begin time.Time, sql string, vars []types.Value, rows int64, err error) {
	ctx = s.context(ctx)
	s.Config.Logger.Trace(ctx, begin, func() (string, int64) {
		params := make([]interface{}, len(vars))
		for idx, v := range vars {
			params[idx] = v
		}
		sql, params := s.Config.Logger.ParamsFilter(ctx, sql, params...)
		return logger.ExplainSQL(sql, params...), rows
	}, err)
}

// execError translates a native error raised by sql
func (s *Session) execError(sql string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	err = s.Config.Translator.Translate(err)
	if errtranslator.IsConnect(err) {
		s.broken.Store(true)
	}
	return &ExecError{SQL: sql, Code: errtranslator.Code(err), Err: err}
}

// execDirect runs a statement without binds or caching
func (s *Session) execDirect(ctx context.Context, sql string) (err error) {
	begin := s.Config.NowFunc()
	defer func() {
		s.trace(ctx, begin, sql, nil, -1, err)
	}()

	if execer, ok := s.conn.(driver.ExecerContext); ok {
		_, err = execer.ExecContext(ctx, sql, nil)
		if !errors.Is(err, driver.ErrSkip) {
			if err != nil {
				err = s.execError(sql, err)
			}
			return err
		}
	}

	stmt, err := s.stmts.Prepare(ctx, s.conn, sql, false)
	if err != nil {
		return s.execError(sql, err)
	}
	defer stmt.Release()
	if _, err = execStmt(ctx, stmt.Stmt, nil); err != nil {
		return s.execError(sql, err)
	}
	return nil
}

// Raw runs a query written with ? placeholders, for catalog lookups and
// other statements the builder does not model
func (s *Session) Raw(ctx context.Context, sql string, args ...interface{}) (*Rows, error) {
	return s.Select(ctx, clause.RawQuery{SQL: sql, Vars: args})
}

// Select builds q and opens a cursor over its rows
func (s *Session) Select(ctx context.Context, q clause.Query) (*Rows, error) {
	stmt, err := s.builder.Build(q)
	if err != nil {
		return nil, err
	}
	return s.QueryStatement(ctx, stmt)
}

// Exec builds q and executes it
func (s *Session) Exec(ctx context.Context, q clause.Query) (Result, error) {
	stmt, err := s.builder.Build(q)
	if err != nil {
		return Result{}, err
	}
	return s.ExecuteStatement(ctx, stmt)
}

// Ping runs SELECT 1 FROM DUAL
func (s *Session) Ping(ctx context.Context) error {
	rows, err := s.Select(ctx, clause.RawQuery{
		SQL:     "SELECT 1 FROM DUAL",
		Columns: []clause.Column{{Name: "1", Type: types.BigInt}},
	})
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err == nil {
			err = fmt.Errorf("ping: %w", ErrNoData)
		}
	}
	return err
}

// IsBroken reports a session that should not be handed out again: closed,
// failed with a connection error, or left inside a transaction
func (s *Session) IsBroken() bool {
	return s.closed.Load() || s.broken.Load() || s.tx != nil
}

// Close closes open cursors, rolls back an open transaction, closes the
// cached statements and releases the connection, exactly once
func (s *Session) Close() error {
	if !s.inUse.CompareAndSwap(false, true) {
		return ErrConcurrentUse
	}
	defer s.inUse.Store(false)

	s.closeOnce.Do(func() {
		ctx := context.Background()
		begin := s.Config.NowFunc()
		s.closed.Store(true)

		var errs []error
		for rows := range s.rows {
			errs = append(errs, rows.close())
		}
		if s.tx != nil {
			errs = append(errs, s.tx.Rollback())
			s.tx = nil
			s.trace(ctx, begin, "ROLLBACK", nil, -1, errs[len(errs)-1])
		}
		errs = append(errs, s.stmts.Close())
		errs = append(errs, s.conn.Close())
		if s.env != nil {
			s.env.remove(s)
		}

		s.closeErr = errors.Join(errs...)
		s.trace(ctx, begin, "DISCONNECT "+s.Descriptor.String(), nil, -1, s.closeErr)
	})
	return s.closeErr
}
