// Package redis connects to Redis for the session store.
//
//	cfg := config.MustLoad[redis.Config]()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redisstore.New(client)
//
// Healthcheck returns a probe suitable for readiness endpoints.
package redis
