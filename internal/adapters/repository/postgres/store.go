package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Store owns the connection pool. It is created once at startup and closed
// once at shutdown.
type Store struct {
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

func Open(ctx context.Context, databaseURL string, pool PoolConfig) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewStore(db), nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (st *Store) DB() *sql.DB {
	return st.db
}

func (st *Store) Close() error {
	st.closeOnce.Do(func() {
		st.closeErr = st.db.Close()
	})
	return st.closeErr
}

func (st *Store) WithSession(ctx context.Context, fn func(s ports.Session) error) (err error) {
	s := &Session{db: st.db, ctx: ctx}
	defer func() {
		if p := recover(); p != nil {
			s.Close()
			panic(p)
		}
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := fn(s); err != nil {
		if rbErr := s.Rollback(); rbErr != nil {
			slog.Warn("session rollback failed", "error", rbErr)
		}
		return err
	}
	return nil
}

// Session begins a transaction on first use. After Commit or Rollback the
// next operation begins a new one.
type Session struct {
	db     *sql.DB
	ctx    context.Context
	tx     *sql.Tx
	closed bool
}

var errSessionClosed = errors.New("session is closed")

func (s *Session) conn() (*sql.Tx, error) {
	if s.closed {
		return nil, errSessionClosed
	}
	if s.tx == nil {
		tx, err := s.db.BeginTx(s.ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

func (s *Session) Commit() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	return tx.Commit()
}

func (s *Session) Rollback() error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

// Close discards uncommitted work and releases the connection.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	err := s.Rollback()
	s.closed = true
	return err
}

func asSession(s ports.Session, table string) (*Session, error) {
	sess, ok := s.(*Session)
	if !ok || sess == nil {
		return nil, &domain.EntityError{Kind: domain.ErrEngine, Entity: table, Msg: "session does not belong to this store"}
	}
	return sess, nil
}
