// Package pg connects to PostgreSQL with pgx/v5 and applies goose
// migrations from an embedded filesystem.
//
// Connect retries with linear back-off until the database answers a ping.
// Migrate runs the migrations through the same pool:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, pgstore.MigrationsDir, slog.Default()); err != nil {
//	    return err
//	}
//
// Healthcheck returns a probe for readiness endpoints.
package pg
