package core

import (
	"context"
	"fmt"
	"log/slog"

	"lifetrack/internal/blob"
	blobcore "lifetrack/internal/blob/core"
	"lifetrack/internal/config"
	"lifetrack/internal/infra/persistence/badger"
	"lifetrack/internal/infra/persistence/blobslot"
	"lifetrack/internal/infra/persistence/memory"
	"lifetrack/internal/infra/persistence/postgres"
	"lifetrack/internal/infra/persistence/sqlite"
	"lifetrack/pkg/domain"
)

// StorageDriver identifies a concrete slot store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = config.DriverMemory   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = config.DriverSQLite   // embedded sqlite file
	StoragePostgres StorageDriver = config.DriverPostgres // PostgreSQL server
	StorageBadger   StorageDriver = config.DriverBadger   // embedded badger KV directory
	StorageFS       StorageDriver = config.DriverFS       // one JSON file per slot
	StorageS3       StorageDriver = config.DriverS3       // one object per slot in a bucket
)

// OpenSlotStore opens the backend named by cfg.Driver. An empty driver means sqlite.
func OpenSlotStore(ctx context.Context, cfg config.Storage, logger *slog.Logger) (domain.SlotStore, error) {
	driver := StorageDriver(cfg.Driver)
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return slotStore(sqlite.NewStore(cfg.SQLitePath))
	case StoragePostgres:
		return slotStore(postgres.NewStore(ctx, cfg.PostgresDSN))
	case StorageBadger:
		bcfg := badger.DefaultConfig(cfg.BadgerPath)
		bcfg.Logger = logger
		return slotStore(badger.Open(bcfg))
	case StorageFS:
		blobs, err := blob.Open(ctx, blobcore.DriverFilesystem, cfg)
		if err != nil {
			return nil, fmt.Errorf("open fs slot store: %w", err)
		}
		return slotStore(blobslot.New(blobs, ""))
	case StorageS3:
		blobs, err := blob.Open(ctx, blobcore.DriverS3, cfg)
		if err != nil {
			return nil, fmt.Errorf("open s3 slot store: %w", err)
		}
		return slotStore(blobslot.New(blobs, cfg.S3.Prefix))
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDriver, cfg.Driver)
	}
}

// slotStore returns a nil interface when err is set.
func slotStore[S domain.SlotStore](s S, err error) (domain.SlotStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
