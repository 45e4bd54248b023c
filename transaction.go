package oci

import (
	"context"
	"database/sql/driver"
	"fmt"

	"gorm.io/oci/dialect"
)

// Begin starts a transaction. Outside one, every statement commits on its own.
func (s *Session) Begin(ctx context.Context) error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	if s.tx != nil {
		return ErrTransactionAlreadyOpen
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.begin(ctx)
}

func (s *Session) begin(ctx context.Context) error {
	begin := s.Config.NowFunc()
	tx, err := beginTx(ctx, s.conn)
	if err != nil {
		err = s.execError("BEGIN", err)
	}
	s.trace(ctx, begin, "BEGIN", nil, -1, err)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

func beginTx(ctx context.Context, conn driver.Conn) (driver.Tx, error) {
	if beginner, ok := conn.(driver.ConnBeginTx); ok {
		return beginner.BeginTx(ctx, driver.TxOptions{})
	}
	//nolint:staticcheck
	return conn.Begin()
}

// Commit commits the open transaction
func (s *Session) Commit(ctx context.Context) error {
	return s.finish(ctx, "COMMIT", driver.Tx.Commit)
}

// Rollback rolls back the open transaction
func (s *Session) Rollback(ctx context.Context) error {
	return s.finish(ctx, "ROLLBACK", driver.Tx.Rollback)
}

// finish ends the transaction whatever the outcome; a failed COMMIT leaves
// the session in autocommit mode like a successful one
func (s *Session) finish(ctx context.Context, sql string, end func(driver.Tx) error) error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	if s.tx == nil {
		return ErrNoOpenTransaction
	}
	return s.end(ctx, sql, end)
}

func (s *Session) end(ctx context.Context, sql string, end func(driver.Tx) error) error {
	begin := s.Config.NowFunc()
	tx := s.tx
	s.tx = nil
	s.savepoints = 0

	err := end(tx)
	if err != nil {
		err = s.execError(sql, err)
	}
	s.trace(ctx, begin, sql, nil, -1, err)
	return err
}

// Savepoint marks a point of the open transaction RollbackTo returns to
func (s *Session) Savepoint(ctx context.Context, name string) error {
	return s.savepoint(ctx, "SAVEPOINT ", name)
}

// RollbackTo undoes the work done since the savepoint name; the
// transaction stays open
func (s *Session) RollbackTo(ctx context.Context, name string) error {
	return s.savepoint(ctx, "ROLLBACK TO SAVEPOINT ", name)
}

func (s *Session) savepoint(ctx context.Context, prefix, name string) error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	if s.tx == nil {
		return ErrNoOpenTransaction
	}
	if name == "" {
		return fmt.Errorf("oracle: empty savepoint name")
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.execDirect(ctx, prefix+dialect.QuoteIdentifier(name))
}

// nextSavepoint names a savepoint unique within the transaction
func (s *Session) nextSavepoint(prefix string) string {
	s.savepoints++
	return dialect.ShortName(fmt.Sprintf("%s_%d", prefix, s.savepoints))
}
