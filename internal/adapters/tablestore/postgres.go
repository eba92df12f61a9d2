package tablestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore реализует TableStorePort поверх PostgreSQL.
// Все именованные таблицы живут в одной таблице registry_rows,
// строки нумеруются с 1 в порядке вставки (по id)
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema создает таблицу хранилища, если ее еще нет
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	sql := `
		CREATE TABLE IF NOT EXISTS registry_rows (
			id BIGSERIAL PRIMARY KEY,
			table_name TEXT NOT NULL,
			cells TEXT[] NOT NULL
		);
		CREATE INDEX IF NOT EXISTS registry_rows_table_name_idx ON registry_rows (table_name, id);
	`
	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure registry_rows schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, table, value string) (int, bool, error) {
	sql := `
		SELECT rn FROM (
			SELECT row_number() OVER (ORDER BY id) AS rn, cells
			FROM registry_rows WHERE table_name = $1
		) t
		WHERE $2 = ANY(t.cells)
		ORDER BY rn LIMIT 1;
	`
	var rn int64
	err := s.pool.QueryRow(ctx, sql, table, value).Scan(&rn)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find %q in table %q: %w", value, table, err)
	}
	return int(rn), true, nil
}

func (s *PostgresStore) FindAll(ctx context.Context, table, value string) ([]int, error) {
	sql := `
		SELECT rn FROM (
			SELECT row_number() OVER (ORDER BY id) AS rn, cells
			FROM registry_rows WHERE table_name = $1
		) t
		WHERE $2 = ANY(t.cells)
		ORDER BY rn;
	`
	rows, err := s.pool.Query(ctx, sql, table, value)
	if err != nil {
		return nil, fmt.Errorf("failed to find all %q in table %q: %w", value, table, err)
	}
	defer rows.Close()

	var matches []int
	for rows.Next() {
		var rn int64
		if err := rows.Scan(&rn); err != nil {
			return nil, fmt.Errorf("failed to scan row number: %w", err)
		}
		matches = append(matches, int(rn))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}
	return matches, nil
}

func (s *PostgresStore) ReadRow(ctx context.Context, table string, row int) ([]string, error) {
	sql := `
		SELECT cells FROM (
			SELECT row_number() OVER (ORDER BY id) AS rn, cells
			FROM registry_rows WHERE table_name = $1
		) t
		WHERE t.rn = $2;
	`
	var cells []string
	err := s.pool.QueryRow(ctx, sql, table, row).Scan(&cells)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("row %d out of range for table %q", row, table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read row %d of table %q: %w", row, table, err)
	}
	return cells, nil
}

func (s *PostgresStore) Rows(ctx context.Context, table string) ([][]string, error) {
	sql := `SELECT cells FROM registry_rows WHERE table_name = $1 ORDER BY id;`
	rows, err := s.pool.Query(ctx, sql, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list rows of table %q: %w", table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("failed to scan cells: %w", err)
		}
		out = append(out, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows of table %q: %w", table, err)
	}
	return out, nil
}

func (s *PostgresStore) AppendRow(ctx context.Context, table string, values []string) error {
	sql := `INSERT INTO registry_rows (table_name, cells) VALUES ($1, $2);`
	if _, err := s.pool.Exec(ctx, sql, table, values); err != nil {
		return fmt.Errorf("failed to append row to table %q: %w", table, err)
	}
	return nil
}

func (s *PostgresStore) DeleteRow(ctx context.Context, table string, row int) error {
	return s.DeleteRowRange(ctx, table, row, row)
}

func (s *PostgresStore) DeleteRowRange(ctx context.Context, table string, first, last int) error {
	if first < 1 || last < first {
		return fmt.Errorf("bad row range [%d, %d] for table %q", first, last, table)
	}
	sql := `
		DELETE FROM registry_rows WHERE id IN (
			SELECT id FROM (
				SELECT id, row_number() OVER (ORDER BY id) AS rn
				FROM registry_rows WHERE table_name = $1
			) t
			WHERE t.rn BETWEEN $2 AND $3
		);
	`
	if _, err := s.pool.Exec(ctx, sql, table, first, last); err != nil {
		return fmt.Errorf("failed to delete rows [%d, %d] of table %q: %w", first, last, table, err)
	}
	return nil
}
