package port

import "context"

// Имена таблиц хранилища
const (
	TableBuildings     = "МКД"
	TableOrganizations = "Организации"
	TableRooms         = "Помещения"
)

// TableStorePort - минимальный контракт позиционного табличного хранилища.
// Хранилище не обеспечивает уникальности: единственный механизм проверки
// «такая запись уже есть» - Find перед каждой вставкой.
// Ручные правки таблицы извне не синхронизируются; это принятая граница доверия
type TableStorePort interface {
	// Find возвращает номер первой строки, содержащей value в любой ячейке,
	// при просмотре в порядке хранения. ok=false, если совпадений нет
	Find(ctx context.Context, table, value string) (row int, ok bool, err error)

	// FindAll возвращает номера всех строк с совпадением по возрастанию
	FindAll(ctx context.Context, table, value string) ([]int, error)

	// ReadRow возвращает значения ячеек строки в порядке колонок
	ReadRow(ctx context.Context, table string, row int) ([]string, error)

	// Rows возвращает все строки таблицы в порядке хранения
	Rows(ctx context.Context, table string) ([][]string, error)

	// AppendRow дописывает строку в конец таблицы
	AppendRow(ctx context.Context, table string, values []string) error

	// DeleteRow удаляет одну строку
	DeleteRow(ctx context.Context, table string, row int) error

	// DeleteRowRange удаляет непрерывный диапазон строк [first, last]
	DeleteRowRange(ctx context.Context, table string, first, last int) error
}
