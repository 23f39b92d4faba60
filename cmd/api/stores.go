package main

import (
	"context"
	"fmt"

	"pet-tag-lookup/internal/adapters/storage/memory"
	"pet-tag-lookup/internal/adapters/storage/postgres"
	"pet-tag-lookup/internal/adapters/storage/sqlite"
	"pet-tag-lookup/internal/config"
	"pet-tag-lookup/internal/router"
)

// openStores abre el backend configurado. close libera conexiones; nunca es nil.
func openStores(ctx context.Context, c config.DBConfig) (*router.Stores, func(), error) {
	switch c.Driver {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, c.DSN)
		if err != nil {
			return nil, func() {}, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, func() {}, fmt.Errorf("migrate: %w", err)
		}
		return &router.Stores{Pets: s.Pets(), Tags: s.Tags(), Scans: s.Scans()}, s.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, c.SQLitePath)
		if err != nil {
			return nil, func() {}, err
		}
		return &router.Stores{Pets: s.Pets(), Tags: s.Tags(), Scans: s.Scans()}, func() { _ = s.Close() }, nil

	default:
		m := memory.NewStore()
		return &router.Stores{Pets: m.Pets(), Tags: m.Tags(), Scans: m.Scans()}, func() {}, nil
	}
}
