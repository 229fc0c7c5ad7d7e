package store

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-pantry-keeper/internal/config"
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
)

// Storages bundles every persistence-layer dependency the service layer
// needs: the three repositories plus the in-process notification hub.
type Storages struct {
	UserRepository    UserRepository
	ProfileRepository ProfileRepository
	ItemRepository    ItemRepository
	Hub               *Hub
}

// NewStorages wires all repositories and the hub onto a single database
// connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:    NewUserRepository(db, log),
		ProfileRepository: NewProfileRepository(db, log),
		ItemRepository:    NewItemRepository(db, log),
		Hub:               NewHub(log),
	}
}

// NewConnectDB opens the database backend selected by the DSN scheme:
// "postgres://" (or "postgresql://") connects via pgx, anything else is
// treated as a SQLite file path for local development.
func NewConnectDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return NewConnectPostgres(ctx, cfg, log)
	}

	return NewConnectSQLite(ctx, cfg, log)
}
