package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/nostalgiabin/catalog-service/models"
	"github.com/nostalgiabin/catalog-service/pkg/config"
	"github.com/nostalgiabin/catalog-service/pkg/logging"
)

// DBClient holds the PostgreSQL database connection
type DBClient struct {
	db *sql.DB
}

// NewPostgresClient initializes and returns a new PostgreSQL client
func NewPostgresClient(ctx context.Context, cfg config.PostgresConfig) (*DBClient, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = db.PingContext(pingCtx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.Info().Str("host", cfg.Host).Msg("Connected to PostgreSQL")
	return &DBClient{db: db}, nil
}

// Close closes the database connection
func (c *DBClient) Close() error {
	if c.db == nil {
		return nil
	}
	logging.Debug().Msg("PostgreSQL connection closed")
	return c.db.Close()
}

// GetDB returns the underlying *sql.DB instance
func (c *DBClient) GetDB() *sql.DB {
	return c.db
}

// PostgresStore keeps the catalog in a pgvector-enabled PostgreSQL table.
type PostgresStore struct {
	client     *DBClient
	table      string
	dimensions int
}

// NewPostgresStore connects and returns a store over table whose embedding
// column holds vectors of the given dimensions.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, table string, dimensions int) (*PostgresStore, error) {
	if err := validIdentifier(table); err != nil {
		return nil, err
	}
	client, err := NewPostgresClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{client: client, table: table, dimensions: dimensions}, nil
}

// PostgresTableDDL creates the vector extension and the catalog table.
func PostgresTableDDL(table string, dimensions int) string {
	return fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS %s (
    product_id INTEGER PRIMARY KEY CHECK (product_id > 0),
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    subcategory TEXT NOT NULL,
    era TEXT NOT NULL,
    decade SMALLINT NOT NULL,
    materials TEXT[] NOT NULL,
    colors TEXT[] NOT NULL,
    condition_rating REAL NOT NULL,
    price_dollars REAL NOT NULL,
    description TEXT NOT NULL,
    embedding vector(%d) NOT NULL,
    date_added TIMESTAMP NOT NULL
);`, table, dimensions)
}

// PostgresIndexDDL builds an HNSW index over L2 distance.
func PostgresIndexDDL(table string) string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_embedding_index ON %s USING hnsw (embedding vector_l2_ops);", table, table)
}

func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	if _, err := s.client.GetDB().ExecContext(ctx, PostgresTableDDL(s.table, s.dimensions)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// InsertProducts streams every row through a single COPY in one transaction.
func (s *PostgresStore) InsertProducts(ctx context.Context, products []models.StoredProduct) error {
	tx, err := s.client.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback on error by default

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.table, Columns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, p := range products {
		_, err = stmt.ExecContext(ctx,
			p.ProductID,
			p.Name,
			p.Category,
			p.Subcategory,
			p.Era,
			p.Decade,
			pq.Array(p.Materials),
			pq.Array(p.Colors),
			p.ConditionRating,
			p.PriceDollars,
			p.Description,
			pgvector.NewVector(p.Embedding),
			p.AddedAt,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy product %d: %w", p.ProductID, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateVectorIndex(ctx context.Context) error {
	if _, err := s.client.GetDB().ExecContext(ctx, PostgresIndexDDL(s.table)); err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}
	return nil
}

func (s *PostgresStore) SimilaritySearch(ctx context.Context, q SimilarityQuery) ([]models.SearchResult, error) {
	q.Table = s.table
	rows, err := s.client.GetDB().QueryContext(ctx, BuildPostgresQuery(q), pgvector.NewVector(q.Vector))
	if err != nil {
		return nil, fmt.Errorf("failed to run similarity query: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(
			&r.ProductID, &r.Name, &r.Category, &r.Subcategory, &r.Era, &r.Decade,
			pq.Array(&r.Materials), pq.Array(&r.Colors), &r.ConditionRating, &r.PriceDollars,
			&r.Description, &r.Distance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration from DB: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) Close() error {
	return s.client.Close()
}
