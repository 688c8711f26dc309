package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/heitorleonny/rag-bedrock-piloto/internal/models"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStorage is the self-hosted alternative to DynamoDB. The pk/sk
// column pair keeps the exact same lexical range semantics.
type PostgresStorage struct {
	db    *sql.DB
	alloc *keyAllocator
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, alloc: newKeyAllocator(time.Now)}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) Append(ctx context.Context, item models.ExpenseItem, currency string) (models.ExpenseRecord, error) {
	sk, createdAt := s.alloc.next()
	record := newRecord(item, currency, sk, createdAt)

	query := `
		INSERT INTO expenses (pk, sk, amount, description_raw, description_normalized, category, confidence, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		record.PK,
		record.SK,
		record.Amount.String(),
		record.DescriptionRaw,
		record.DescriptionNormalized,
		string(record.Category),
		record.Confidence.String(),
		record.Currency,
		record.CreatedAt,
	)
	if err != nil {
		return models.ExpenseRecord{}, &StoreError{Op: "insert expense", Err: err}
	}

	return record, nil
}

func (s *PostgresStorage) ScanAll(ctx context.Context) ([]models.ExpenseRecord, error) {
	query := `
		SELECT pk, sk, amount, description_raw, description_normalized, category, confidence, currency, created_at
		FROM expenses
		WHERE pk = $1
		ORDER BY sk`

	rows, err := s.db.QueryContext(ctx, query, PartitionKey)
	if err != nil {
		return nil, &StoreError{Op: "query expenses", Err: err}
	}
	defer rows.Close()

	return scanRows(rows)
}

func (s *PostgresStorage) ScanMonth(ctx context.Context, year int, month time.Month) ([]models.ExpenseRecord, error) {
	low, high := monthRange(year, month)

	query := `
		SELECT pk, sk, amount, description_raw, description_normalized, category, confidence, currency, created_at
		FROM expenses
		WHERE pk = $1 AND sk >= $2 AND sk < $3
		ORDER BY sk`

	rows, err := s.db.QueryContext(ctx, query, PartitionKey, low, high)
	if err != nil {
		return nil, &StoreError{Op: "query expenses by month", Err: err}
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]models.ExpenseRecord, error) {
	var records []models.ExpenseRecord
	for rows.Next() {
		var record models.ExpenseRecord
		var amount, confidence, category string

		err := rows.Scan(
			&record.PK,
			&record.SK,
			&amount,
			&record.DescriptionRaw,
			&record.DescriptionNormalized,
			&category,
			&confidence,
			&record.Currency,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, &StoreError{Op: "scan expense row", Err: err}
		}

		if record.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, &StoreError{Op: "decode amount", Err: err}
		}
		if record.Confidence, err = decimal.NewFromString(confidence); err != nil {
			return nil, &StoreError{Op: "decode confidence", Err: err}
		}
		record.Category = models.Category(category)

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "iterate expense rows", Err: err}
	}

	return records, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
