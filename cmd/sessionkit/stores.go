package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/secrets"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/filestore"
	"github.com/dmitrymomot/sessionkit/pkg/session/mongostore"
	"github.com/dmitrymomot/sessionkit/pkg/session/pgstore"
	"github.com/dmitrymomot/sessionkit/pkg/session/redisstore"
	"github.com/dmitrymomot/sessionkit/pkg/session/s3store"
)

var errUnknownDriver = errors.New("sessionkit: unknown session store driver")

// encryptionPurpose separates session payload keys from other HKDF uses of
// the same master key.
const encryptionPurpose = "session-store"

// backend is an opened session store together with its readiness probes and
// the connections that must be closed on shutdown.
type backend struct {
	store   session.Store
	checks  []httpserver.Check
	closers []func() error
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

func openBackend(ctx context.Context, cfg storeConfig, log *slog.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.Driver {
	case "memory", "":
		b.store = session.NewMemoryStore(session.WithMaxEntries(cfg.MemoryMaxEntries))

	case "null":
		b.store = session.NewNullStore()

	case "file":
		st, err := filestore.New(cfg.FileDir)
		if err != nil {
			return nil, err
		}
		b.store = st

	case "redis":
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, err
		}
		b.store = redisstore.New(client, redisstore.WithPrefix(cfg.RedisPrefix))
		b.checks = append(b.checks, httpserver.Check{Name: "redis", Func: redis.Healthcheck(client)})
		b.closers = append(b.closers, client.Close)

	case "postgres":
		var pc pg.Config
		if err := config.Load(&pc); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pc)
		if err != nil {
			return nil, err
		}
		b.store = pgstore.New(pool)
		b.checks = append(b.checks, httpserver.Check{Name: "postgres", Func: pg.Healthcheck(pool)})
		b.closers = append(b.closers, func() error { pool.Close(); return nil })

	case "mongo":
		var mc mongo.Config
		if err := config.Load(&mc); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, mc)
		if err != nil {
			return nil, err
		}
		st := mongostore.New(client.Database(mc.Database).Collection(cfg.MongoCollection))
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		b.store = st
		b.checks = append(b.checks, httpserver.Check{Name: "mongo", Func: mongo.Healthcheck(client)})
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })

	case "s3":
		var sc s3store.Config
		if err := config.Load(&sc); err != nil {
			return nil, err
		}
		st, err := s3store.New(ctx, sc)
		if err != nil {
			return nil, err
		}
		b.store = st

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownDriver, cfg.Driver)
	}

	if len(cfg.EncryptionKeys) > 0 {
		codec, err := newCodec(cfg.EncryptionKeys)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.store = session.NewEncryptedStore(b.store, codec)
	}

	log.InfoContext(ctx, "session store ready",
		logger.Store(cfg.Driver),
		slog.Bool("encrypted", len(cfg.EncryptionKeys) > 0),
	)
	return b, nil
}

func newCodec(encoded []string) (*secrets.Cipher, error) {
	keys := make([][]byte, 0, len(encoded))
	for _, s := range encoded {
		k, err := secrets.ParseKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return secrets.NewCipher(encryptionPurpose, keys...)
}
