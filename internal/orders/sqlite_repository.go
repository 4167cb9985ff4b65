package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/shopkart/storefront/internal/domain"
)

// SQLiteReadModel stores each order as a JSON payload keyed by order id,
// with the status denormalized for ordering and filtering.
type SQLiteReadModel struct {
	db *sql.DB
}

func NewSQLiteReadModel(dbPath string) (*SQLiteReadModel, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteReadModel{db: db}, nil
}

func (r *SQLiteReadModel) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteReadModel) Upsert(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := `INSERT INTO orders (id, status, order_date, payload)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT(id) DO UPDATE SET status = $2, payload = $4`

	if _, err := r.db.ExecContext(ctx, query, order.ID, string(order.Status), order.OrderDate, payload); err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

func (r *SQLiteReadModel) List(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT payload FROM orders ORDER BY order_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		var order domain.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		out = append(out, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

func (r *SQLiteReadModel) Close() error {
	return r.db.Close()
}
