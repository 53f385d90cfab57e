package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingEnv is returned when required environment variables are unset.
var ErrMissingEnv = errors.New("required environment variables not set")

// Store drivers.
const (
	DriverClickHouse = "clickhouse"
	DriverPostgres   = "postgres"
)

// ClickHouseConfig describes the analytical store connection.
type ClickHouseConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	Secure          bool
	VectorIndexType string
}

// PostgresConfig uses the same variables as the product-service database client.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// StoreConfig selects and configures the store the catalog is loaded into.
type StoreConfig struct {
	Driver     string
	Table      string
	Dimensions int
	ClickHouse ClickHouseConfig
	Postgres   PostgresConfig
}

// EmbeddingConfig configures the external embedding service and its cache.
type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	RedisAddr  string
	CacheTTL   time.Duration
}

// Config is everything the loader and the search lambda need.
type Config struct {
	Store      StoreConfig
	Embedding  EmbeddingConfig
	S3Endpoint string
}

// Load reads the loader configuration from the environment. Every missing
// required variable is reported in one error wrapping ErrMissingEnv.
func Load() (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	embeddingCfg, err := loadEmbedding(required)
	if err != nil {
		return nil, err
	}

	storeCfg, err := loadStore(required, embeddingCfg.Dimensions)
	if err != nil {
		return nil, err
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	return &Config{
		Store:      storeCfg,
		Embedding:  embeddingCfg,
		S3Endpoint: os.Getenv("S3_ENDPOINT"),
	}, nil
}

func loadEmbedding(required func(string) string) (EmbeddingConfig, error) {
	dims, err := intEnv("EMBEDDING_DIMENSIONS", 1536)
	if err != nil {
		return EmbeddingConfig{}, err
	}

	ttl := time.Duration(0)
	if v := os.Getenv("EMBEDDING_CACHE_TTL"); v != "" {
		ttl, err = time.ParseDuration(v)
		if err != nil {
			return EmbeddingConfig{}, fmt.Errorf("invalid EMBEDDING_CACHE_TTL %q: %w", v, err)
		}
	}

	return EmbeddingConfig{
		APIKey:     required("OPENAI_API_KEY"),
		BaseURL:    os.Getenv("OPENAI_BASE_URL"),
		Model:      stringEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		Dimensions: dims,
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		CacheTTL:   ttl,
	}, nil
}

func loadStore(required func(string) string, dims int) (StoreConfig, error) {
	cfg := StoreConfig{
		Driver:     strings.ToLower(stringEnv("STORE_DRIVER", DriverClickHouse)),
		Table:      stringEnv("CATALOG_TABLE", "nostalgia_bin"),
		Dimensions: dims,
	}

	switch cfg.Driver {
	case DriverClickHouse:
		port, err := intEnv("CLICKHOUSE_PORT", 8443)
		if err != nil {
			return cfg, err
		}
		secure, err := boolEnv("CLICKHOUSE_SECURE", false)
		if err != nil {
			return cfg, err
		}
		cfg.ClickHouse = ClickHouseConfig{
			Host:            required("CLICKHOUSE_HOST"),
			Port:            port,
			Username:        stringEnv("CLICKHOUSE_USERNAME", "default"),
			Password:        os.Getenv("CLICKHOUSE_PASSWORD"),
			Database:        stringEnv("CLICKHOUSE_DATABASE", "default"),
			Secure:          secure,
			VectorIndexType: stringEnv("CLICKHOUSE_VECTOR_INDEX_TYPE", "MSTG"),
		}
	case DriverPostgres:
		cfg.Postgres = PostgresConfig{
			Host:     required("DB_HOST"),
			Port:     stringEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		}
	default:
		return cfg, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Driver)
	}

	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
