// Package config loads typed configuration from environment variables.
//
// Structs are annotated with `env` and `envDefault` tags understood by
// github.com/caarlos0/env/v11. A ".env" file, if present, is read through
// github.com/joho/godotenv before the first parse. Every configuration type
// is parsed once and cached for the life of the process.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
//	redisCfg := config.MustLoad[redis.Config]()
//
// LoadEnv reads additional dotenv files; ResetCache forces the next Load to
// parse again, which is mostly useful in tests.
package config
