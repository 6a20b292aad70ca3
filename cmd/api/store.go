package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/paygate/approval-service/internal/api/handler"
	"github.com/paygate/approval-service/internal/core/ports"
	"github.com/paygate/approval-service/internal/infrastructure/db/memory"
	"github.com/paygate/approval-service/internal/infrastructure/db/mongo"
	"github.com/paygate/approval-service/internal/infrastructure/db/postgres"
	"github.com/paygate/approval-service/internal/infrastructure/db/redis"
	"github.com/paygate/approval-service/internal/pkg/config"
)

// stores bundles the repositories selected by STORE_DRIVER.
type stores struct {
	users        ports.UserRepository
	transactions ports.TransactionRepository
	idempotency  ports.IdempotencyStore
	health       map[string]handler.Pinger
	closers      []func(context.Context)
}

func (s *stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i](ctx)
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	s := &stores{health: make(map[string]handler.Pinger)}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Database.DSN(), MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) { pool.Close() })

		if cfg.SchemaSync() {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				s.Close(ctx)
				return nil, err
			}
			log.Info().Msg("postgres schema synchronised")
		} else if ok, err := postgres.HasSchema(ctx, pool); err != nil || !ok {
			log.Warn().Err(err).Msg("postgres schema missing; run with ENV=development to create it")
		}

		s.users = postgres.NewUserRepository(pool)
		s.transactions = postgres.NewTransactionRepository(pool)
		s.health["postgres"] = pool.Ping

	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(ctx context.Context) { _ = client.Disconnect(ctx) })

		if cfg.SchemaSync() {
			if err := mongo.EnsureIndexes(ctx, db); err != nil {
				s.Close(ctx)
				return nil, err
			}
			log.Info().Msg("mongo indexes synchronised")
		}

		s.users = mongo.NewUserRepository(db)
		s.transactions = mongo.NewTransactionRepository(db)
		s.health["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	case config.StoreMemory:
		mem := memory.NewStore()
		s.users = mem.Users()
		s.transactions = mem.Transactions()
		s.health["memory"] = mem.Ping
		log.Warn().Msg("using in-memory store; data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	rcfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if rcfg.Enabled() {
		rdb, err := redis.Connect(ctx, rcfg)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) { _ = rdb.Close() })
		s.idempotency = redis.NewIdempotencyStore(rdb)
		s.health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Info().Msg("REDIS_ADDR not set; idempotency keys disabled")
	}

	return s, nil
}

