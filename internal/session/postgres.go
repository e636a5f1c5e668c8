package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps analyses in a table so they survive restarts and can
// be shared by several dashboard instances.
type PostgresStore struct {
	mu   sync.Mutex // pgx.Conn is not safe for concurrent use
	conn *pgx.Conn
	ttl  time.Duration
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewPostgresStore connects and ensures the schema exists (auto-migration).
// sweep sets how often expired rows are deleted; zero disables the sweep.
func NewPostgresStore(ctx context.Context, connString string, ttl, sweep time.Duration) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	s := &PostgresStore{conn: conn, ttl: ttl}
	if sweep > 0 {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.janitor(sweep)
	}
	return s, nil
}

func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS analysis_cache (
			session_id TEXT PRIMARY KEY,
			analysis TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS analysis_cache_expires_at_idx ON analysis_cache (expires_at);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Put upserts the analysis and pushes its expiry forward.
func (s *PostgresStore) Put(ctx context.Context, id, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(ctx, `
		INSERT INTO analysis_cache (session_id, analysis, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET analysis = EXCLUDED.analysis, expires_at = EXCLUDED.expires_at
	`, id, value, time.Now().Add(s.ttl))
	return err
}

// Get returns ErrNotFound for missing or expired rows.
func (s *PostgresStore) Get(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var value string
	err := s.conn.QueryRow(ctx,
		"SELECT analysis FROM analysis_cache WHERE session_id = $1 AND expires_at > NOW()", id).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn.Exec(ctx, "DELETE FROM analysis_cache WHERE session_id = $1", id)
	return err
}

// Sweep deletes expired rows and returns how many were removed.
func (s *PostgresStore) Sweep(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, err := s.conn.Exec(ctx, "DELETE FROM analysis_cache WHERE expires_at <= NOW()")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Close stops the sweep and terminates the database connection.
func (s *PostgresStore) Close(ctx context.Context) {
	s.once.Do(func() {
		if s.stop != nil {
			close(s.stop)
			<-s.done
		}
		s.conn.Close(ctx)
	})
}

func (s *PostgresStore) janitor(every time.Duration) {
	defer close(s.done)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			ctx, cancel := context.WithTimeout(context.Background(), every)
			n, err := s.Sweep(ctx)
			cancel()
			if err != nil {
				log.Printf("Failed to sweep expired analyses: %v", err)
			} else if n > 0 {
				log.Printf("Swept %d expired analyses", n)
			}
		case <-s.stop:
			return
		}
	}
}
