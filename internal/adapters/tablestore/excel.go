package tablestore

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"context"

	"github.com/xuri/excelize/v2"
)

// ExcelStore реализует TableStorePort поверх книги xlsx.
// Каждая именованная таблица - отдельный лист, первая строка листа
// занята заголовками и скрыта за портом: строка N порта - это строка
// N+1 листа. Книга перечитывается при создании и сохраняется после
// каждой мутации
type ExcelStore struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// NewExcelStore открывает книгу по пути path или создает новую
// с листами tables и строками заголовков headers
func NewExcelStore(path string, headers map[string][]string) (*ExcelStore, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is required")
	}

	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		f, err = newWorkbook(path, headers)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", path, err)
	}

	// Дополняем книгу недостающими листами
	for table, header := range headers {
		if idx, _ := f.GetSheetIndex(table); idx >= 0 {
			continue
		}
		if _, err := f.NewSheet(table); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", table, err)
		}
		if err := f.SetSheetRow(table, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write header of sheet %q: %w", table, err)
		}
	}
	if err := f.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook %q: %w", path, err)
	}

	return &ExcelStore{file: f, path: path}, nil
}

func newWorkbook(path string, headers map[string][]string) (*excelize.File, error) {
	f := excelize.NewFile()
	for table, header := range headers {
		if _, err := f.NewSheet(table); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", table, err)
		}
		if err := f.SetSheetRow(table, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write header of sheet %q: %w", table, err)
		}
	}
	f.DeleteSheet("Sheet1")
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save new workbook %q: %w", path, err)
	}
	return f, nil
}

func (s *ExcelStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *ExcelStore) Find(_ context.Context, table, value string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(table)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read sheet %q: %w", table, err)
	}
	for i, row := range rows[min(1, len(rows)):] {
		for _, cell := range row {
			if cell == value {
				return i + 1, true, nil
			}
		}
	}
	return 0, false, nil
}

func (s *ExcelStore) FindAll(_ context.Context, table, value string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", table, err)
	}
	var matches []int
	for i, row := range rows[min(1, len(rows)):] {
		for _, cell := range row {
			if cell == value {
				matches = append(matches, i+1)
				break
			}
		}
	}
	return matches, nil
}

func (s *ExcelStore) ReadRow(_ context.Context, table string, row int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", table, err)
	}
	if row < 1 || row+1 > len(rows) {
		return nil, fmt.Errorf("row %d out of range for sheet %q", row, table)
	}
	return rows[row], nil
}

func (s *ExcelStore) Rows(_ context.Context, table string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", table, err)
	}
	return rows[min(1, len(rows)):], nil
}

func (s *ExcelStore) AppendRow(_ context.Context, table string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.file.GetRows(table)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", table, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, max(len(rows), 1)+1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := s.file.SetSheetRow(table, cell, &values); err != nil {
		return fmt.Errorf("failed to append row to sheet %q: %w", table, err)
	}
	return s.save(table)
}

func (s *ExcelStore) DeleteRow(ctx context.Context, table string, row int) error {
	return s.DeleteRowRange(ctx, table, row, row)
}

func (s *ExcelStore) DeleteRowRange(_ context.Context, table string, first, last int) error {
	if first < 1 || last < first {
		return fmt.Errorf("bad row range [%d, %d] for sheet %q", first, last, table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Строки сдвигаются вверх при удалении, поэтому удаляем всегда первую
	for i := first; i <= last; i++ {
		if err := s.file.RemoveRow(table, first+1); err != nil {
			return fmt.Errorf("failed to delete row %d of sheet %q: %w", i, table, err)
		}
	}
	return s.save(table)
}

func (s *ExcelStore) save(table string) error {
	if err := s.file.Save(); err != nil {
		return fmt.Errorf("failed to save workbook after updating sheet %q: %w", table, err)
	}
	return nil
}
