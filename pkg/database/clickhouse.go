package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/config"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

// ClickHouseStore keeps the catalog in a MergeTree table.
type ClickHouseStore struct {
	conn      driver.Conn
	table     string
	indexType string
}

// NewClickHouseStore connects over HTTP(S) and pings the server.
func NewClickHouseStore(ctx context.Context, cfg config.ClickHouseConfig, table string) (*ClickHouseStore, error) {
	if err := validIdentifier(table); err != nil {
		return nil, err
	}

	opts := &clickhouse.Options{
		Addr: []string{net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Protocol:    clickhouse.HTTP,
		DialTimeout: 10 * time.Second,
	}
	if cfg.Secure {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	logging.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connected to ClickHouse")
	return &ClickHouseStore{conn: conn, table: table, indexType: cfg.VectorIndexType}, nil
}

// ClickHouseTableDDL creates the catalog table ordered by product_id.
func ClickHouseTableDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
(
    product_id UInt32,
    name String,
    category String,
    subcategory String,
    era String,
    decade UInt16,
    materials Array(String),
    colors Array(String),
    condition_rating Float32,
    price_dollars Float32,
    description String,
    embedding Array(Float32),
    date_added DateTime
)
ENGINE = MergeTree()
ORDER BY product_id`, table)
}

// ClickHouseIndexDDL adds a vector index of the given type over embedding
// unless the table already has one.
func ClickHouseIndexDDL(table, indexType string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD VECTOR INDEX IF NOT EXISTS embedding_index embedding TYPE %s GRANULARITY 1000", table, indexType)
}

func clickHouseInsert(table string) string {
	return fmt.Sprintf("INSERT INTO %s (%s)", table, strings.Join(Columns, ", "))
}

func (s *ClickHouseStore) EnsureTable(ctx context.Context) error {
	if err := s.conn.Exec(ctx, ClickHouseTableDDL(s.table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// InsertProducts sends every product in a single batch.
func (s *ClickHouseStore) InsertProducts(ctx context.Context, products []models.StoredProduct) error {
	batch, err := s.conn.PrepareBatch(ctx, clickHouseInsert(s.table))
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, p := range products {
		err := batch.Append(
			uint32(p.ProductID),
			p.Name,
			p.Category,
			p.Subcategory,
			p.Era,
			uint16(p.Decade),
			p.Materials,
			p.Colors,
			float32(p.ConditionRating),
			float32(p.PriceDollars),
			p.Description,
			p.Embedding,
			p.AddedAt,
		)
		if err != nil {
			batch.Abort()
			return fmt.Errorf("failed to append product %d: %w", p.ProductID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

func (s *ClickHouseStore) CreateVectorIndex(ctx context.Context) error {
	if err := s.conn.Exec(ctx, ClickHouseIndexDDL(s.table, s.indexType)); err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	return nil
}

func (s *ClickHouseStore) SimilaritySearch(ctx context.Context, q SimilarityQuery) ([]models.SearchResult, error) {
	q.Table = s.table
	rows, err := s.conn.Query(ctx, BuildClickHouseQuery(q))
	if err != nil {
		return nil, fmt.Errorf("failed to run similarity query: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var (
			r                models.SearchResult
			id               uint32
			decade           uint16
			condition, price float32
		)
		if err := rows.Scan(
			&id, &r.Name, &r.Category, &r.Subcategory, &r.Era, &decade,
			&r.Materials, &r.Colors, &condition, &price, &r.Description, &r.Distance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		r.ProductID = int(id)
		r.Decade = int(decade)
		r.ConditionRating = float64(condition)
		r.PriceDollars = float64(price)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration from clickhouse: %w", err)
	}
	return results, nil
}

func (s *ClickHouseStore) Close() error {
	return s.conn.Close()
}
