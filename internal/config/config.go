package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"

	CatalogEmbedded = "embedded"
	CatalogSQLite   = "sqlite"

	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

type Config struct {
	HTTPPort        string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Tracing
	OTelExporter string

	// Cart persistence
	CartStorage    string
	CartKey        string
	CartDataDir    string
	StorageBreaker bool

	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration

	MongoURI                    string
	MongoDBName                 string
	MongoConnectTimeout         time.Duration
	MongoServerSelectionTimeout time.Duration
	MongoMaxPoolSize            uint64

	// Catalog
	CatalogSource string
	CatalogDBPath string
}

// Load reads the configuration from the environment. Variables from a .env
// file in the working directory are loaded first without overriding ones
// already set. Malformed values are reported, never replaced by defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var env envReader
	cfg := &Config{
		HTTPPort:                    getEnv("HTTP_PORT", "8080"),
		LogLevel:                    getEnv("LOG_LEVEL", "info"),
		RequestTimeout:              env.getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout:             env.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		OTelExporter:                strings.ToLower(getEnv("OTEL_EXPORTER", ExporterNone)),
		CartStorage:                 strings.ToLower(getEnv("CART_STORAGE", StorageFile)),
		CartKey:                     getEnv("CART_KEY", "cart"),
		CartDataDir:                 getEnv("CART_DATA_DIR", "./data"),
		StorageBreaker:              env.getBool("STORAGE_BREAKER", false),
		RedisAddr:                   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:               getEnv("REDIS_PASSWORD", ""),
		RedisTTL:                    env.getDuration("REDIS_TTL", 0),
		MongoURI:                    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:                 getEnv("MONGO_DB_NAME", "storefront"),
		MongoConnectTimeout:         env.getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		MongoServerSelectionTimeout: env.getDuration("MONGO_SERVER_SELECTION_TIMEOUT", 5*time.Second),
		MongoMaxPoolSize:            env.getUint("MONGO_MAX_POOL_SIZE", 0),
		CatalogSource:               strings.ToLower(getEnv("CATALOG_SOURCE", CatalogEmbedded)),
		CatalogDBPath:               getEnv("CATALOG_DB_PATH", "./data/catalog.db"),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.CartStorage {
	case StorageMemory, StorageFile, StorageRedis, StorageMongo:
	default:
		return fmt.Errorf("unknown CART_STORAGE %q", c.CartStorage)
	}
	switch c.CatalogSource {
	case CatalogEmbedded, CatalogSQLite:
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}
	switch c.OTelExporter {
	case ExporterNone, ExporterStdout:
	default:
		return fmt.Errorf("unknown OTEL_EXPORTER %q", c.OTelExporter)
	}
	if c.CartKey == "" {
		return fmt.Errorf("CART_KEY must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed variables and collects every malformed one.
type envReader struct {
	errs []error
}

func (r *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return defaultValue
	}
	return d
}

func (r *envReader) getBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return defaultValue
	}
	return b
}

func (r *envReader) getUint(key string, defaultValue uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return defaultValue
	}
	return n
}
