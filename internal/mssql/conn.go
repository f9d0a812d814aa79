package mssql

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/BMFCloud/InfraSnitch/internal/config"
)

// ConnManager owns a single SQL Server connection and its retry flow.
// Retries and delays live here; nothing downstream ever re-dials.
type ConnManager struct {
	mu        sync.RWMutex
	db        *sqlx.DB
	dsn       string
	server    string
	retries   int
	retryWait time.Duration
	maxJitter time.Duration
	logger    *slog.Logger
	randSrc   *rand.Rand
}

func NewConnManager(cfg config.Config, logger *slog.Logger) *ConnManager {
	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}
	retryWait := cfg.ConnectRetryDelay
	if retryWait < 0 {
		retryWait = 0
	}
	maxJitter := cfg.ConnectMaxJitter
	if maxJitter < 0 {
		maxJitter = 0
	}
	return &ConnManager{
		dsn:       BuildDSN(cfg),
		server:    cfg.Server,
		retries:   retries,
		retryWait: retryWait,
		maxJitter: maxJitter,
		logger:    logger,
		randSrc:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildDSN assembles a go-mssqldb connection string. Omitting the user id
// selects integrated authentication, which is what a trusted connection
// means to the driver.
func BuildDSN(cfg config.Config) string {
	parts := []string{
		"server=" + cfg.Server,
		"database=" + cfg.Database,
		"app name=infrasnitch",
	}
	if !cfg.TrustedConnection && cfg.User != "" {
		parts = append(parts, "user id="+cfg.User, "password="+cfg.Password)
	}
	return strings.Join(parts, ";")
}

func (m *ConnManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(ctx)
}

func (m *ConnManager) DB(ctx context.Context) (*sqlx.DB, error) {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()
	if db != nil {
		return db, nil
	}
	if err := m.Connect(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.db == nil {
		return nil, fmt.Errorf("sql server handle is nil after connect")
	}
	return m.db, nil
}

func (m *ConnManager) Healthy(ctx context.Context) error {
	db, err := m.DB(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("sql server ping failed: %w", err)
	}
	return nil
}

func (m *ConnManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func (m *ConnManager) connectLocked(ctx context.Context) error {
	if m.db != nil {
		if err := m.db.PingContext(ctx); err == nil {
			return nil
		}
		_ = m.db.Close()
		m.db = nil
	}

	var lastErr error
	for attempt := 1; attempt <= m.retries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		db, dialErr := sqlx.ConnectContext(ctx, "sqlserver", m.dsn)
		if dialErr == nil {
			m.db = db
			m.logger.Info("sql server connected", "server", m.server, "attempt", attempt)
			return nil
		}
		lastErr = dialErr

		if attempt == m.retries {
			break
		}
		wait := m.retryWait + m.jitter()
		m.logger.Warn("sql server connect failed", "server", m.server, "attempt", attempt, "error", dialErr, "retry_in", wait)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Errorf("connect to %s after %d attempts: %w", m.server, m.retries, lastErr)
}

func (m *ConnManager) jitter() time.Duration {
	if m.maxJitter == 0 {
		return 0
	}
	return time.Duration(m.randSrc.Int63n(int64(m.maxJitter)))
}
