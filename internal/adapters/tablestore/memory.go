package tablestore

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore - табличное хранилище в памяти. Используется в тестах
// и как запасной вариант, когда внешнее хранилище не настроено.
// Номера строк начинаются с 1 и пересчитываются при удалении
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

func NewMemoryStore(tables ...string) *MemoryStore {
	s := &MemoryStore{tables: make(map[string][][]string)}
	for _, t := range tables {
		s.tables[t] = nil
	}
	return s
}

func (s *MemoryStore) rows(table string) ([][]string, error) {
	rows, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("memory store: unknown table %q", table)
	}
	return rows, nil
}

func (s *MemoryStore) Find(_ context.Context, table, value string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.rows(table)
	if err != nil {
		return 0, false, err
	}
	for i, row := range rows {
		if slices.Contains(row, value) {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func (s *MemoryStore) FindAll(_ context.Context, table, value string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.rows(table)
	if err != nil {
		return nil, err
	}
	var matches []int
	for i, row := range rows {
		if slices.Contains(row, value) {
			matches = append(matches, i+1)
		}
	}
	return matches, nil
}

func (s *MemoryStore) ReadRow(_ context.Context, table string, row int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.rows(table)
	if err != nil {
		return nil, err
	}
	if row < 1 || row > len(rows) {
		return nil, fmt.Errorf("memory store: row %d out of range for table %q", row, table)
	}
	return slices.Clone(rows[row-1]), nil
}

func (s *MemoryStore) Rows(_ context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.rows(table)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = slices.Clone(row)
	}
	return out, nil
}

func (s *MemoryStore) AppendRow(_ context.Context, table string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(table)
	if err != nil {
		return err
	}
	s.tables[table] = append(rows, slices.Clone(values))
	return nil
}

func (s *MemoryStore) DeleteRow(ctx context.Context, table string, row int) error {
	return s.DeleteRowRange(ctx, table, row, row)
}

func (s *MemoryStore) DeleteRowRange(_ context.Context, table string, first, last int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(table)
	if err != nil {
		return err
	}
	if first < 1 || last < first || last > len(rows) {
		return fmt.Errorf("memory store: bad row range [%d, %d] for table %q", first, last, table)
	}
	s.tables[table] = append(rows[:first-1], rows[last:]...)
	return nil
}

// RowCount возвращает число строк таблицы (для тестов)
func (s *MemoryStore) RowCount(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}
