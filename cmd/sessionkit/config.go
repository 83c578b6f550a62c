package main

import (
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// Backend connection settings (REDIS_URL, PG_CONN_URL, MONGODB_URL, S3) are
// loaded only for the selected store, since their required tags would fail
// for every other backend.
type appConfig struct {
	Log     logger.Config
	HTTP    httpserver.Config
	Cookie  cookie.Config
	Session session.Config
	Store   storeConfig
	Wire    wireConfig

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"sessionkit"`
}

type storeConfig struct {
	// Driver is one of memory, null, file, redis, postgres, mongo, s3.
	Driver string `env:"SESSION_STORE" envDefault:"memory"`

	MemoryMaxEntries int    `env:"SESSION_MEMORY_MAX_ENTRIES" envDefault:"10000"`
	FileDir          string `env:"SESSION_FILE_DIR" envDefault:"./var/sessions"`
	RedisPrefix      string `env:"SESSION_REDIS_PREFIX" envDefault:"sess_"`
	MongoCollection  string `env:"SESSION_MONGO_COLLECTION" envDefault:"sessions"`

	// EncryptionKeys are base64 keys generated by "sessionkit keygen". The
	// first key encrypts, all of them decrypt. Empty disables encryption.
	EncryptionKeys []string `env:"SESSION_ENCRYPTION_KEYS" envSeparator:","`
}

type wireConfig struct {
	// Transports lists how the session id travels: cookie, header or both.
	// With several, the first one present on a request wins and responses
	// carry the id through all of them.
	Transports []string `env:"SESSION_TRANSPORTS" envSeparator:"," envDefault:"cookie"`
	HeaderName string   `env:"SESSION_HEADER_NAME" envDefault:"X-Session-Token"`

	// IDFormat is random (32 bytes, base64url) or uuid.
	IDFormat string `env:"SESSION_ID_FORMAT" envDefault:"random"`
}
