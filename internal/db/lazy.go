package db

import (
	"sync"

	"github.com/tiXor-code/kanban-board/internal/config"
	"gorm.io/gorm"
)

// Lazy opens a connection the first time it is needed. A failed open is
// retried on the next call.
type Lazy struct {
	mu   sync.Mutex
	open func() (*gorm.DB, error)
	db   *gorm.DB
}

// NewLazy wraps an open function.
func NewLazy(open func() (*gorm.DB, error)) *Lazy {
	return &Lazy{open: open}
}

// Ready wraps an already-open connection.
func Ready(gormDB *gorm.DB) *Lazy {
	return &Lazy{db: gormDB}
}

// FromConfig returns a Lazy that resolves the database URL and auth token
// (environment first, then cfg) when the connection is first needed, then
// auto-migrates the schema.
func FromConfig(cfg config.DatabaseConfig, getenv func(string) string) *Lazy {
	return NewLazy(func() (*gorm.DB, error) {
		url, token := cfg.Resolve(getenv)
		gormDB, err := Open(url, token)
		if err != nil {
			return nil, err
		}
		if err := AutoMigrate(gormDB); err != nil {
			return nil, err
		}
		return gormDB, nil
	})
}

// Get returns the connection, opening it if necessary.
func (l *Lazy) Get() (*gorm.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db != nil {
		return l.db, nil
	}
	gormDB, err := l.open()
	if err != nil {
		return nil, err
	}
	l.db = gormDB
	return gormDB, nil
}

func (l *Lazy) opened() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil
}
