package domain

// Building (МКД) - карточка многоквартирного дома из ГИС ЖКХ.
// Все поля хранятся строками: табличное хранилище позиционное, а при сбое
// обогащения в поле записывается сентинел ErrorValue
type Building struct {
	ID                 string // кадастровый номер без двоеточий либо ключ, введенный оператором
	Address            string
	CadastreNumber     string
	AddressID          string // guid адреса дома в ГИС ЖКХ
	TotalArea          string
	ResidentialArea    string
	BuiltYear          string
	ControlMethod      string
	ManagementINN      string // ИНН УО
	ResourceSupplyINNs string // ИНН РСО через точку с запятой
	CardLink           string
	OrgsLink           string
	PassportLink       string

	// Поля, заполняемые сервисом нормализации адресов
	RegionCode       string
	PostalCode       string
	Settlement       string
	Street           string
	HouseNumber      string
	EnrichedCadastre string
	CoordsLink       string
}

// BuildingColumns - фиксированный порядок колонок таблицы МКД
var BuildingColumns = []string{
	"ID МКД", "Адрес МКД", "Кадастровый номер", "Идентификационный код адреса",
	"Общ.площадь МКД", "Общ.площадь КВ", "Год постройки", "Способ управления",
	"ИНН УО", "ИНН РСО", "Ссылка 1", "Ссылка 2", "Ссылка 3",
	"Код субъекта", "Индекс", "Город / н.п.", "Улица", "Дом", "КадНомМКД", "Геокоординаты",
}

// RowValues возвращает значения полей в порядке колонок таблицы
func (b *Building) RowValues() []string {
	return []string{
		b.ID, b.Address, b.CadastreNumber, b.AddressID,
		b.TotalArea, b.ResidentialArea, b.BuiltYear, b.ControlMethod,
		b.ManagementINN, b.ResourceSupplyINNs, b.CardLink, b.OrgsLink, b.PassportLink,
		b.RegionCode, b.PostalCode, b.Settlement, b.Street, b.HouseNumber,
		b.EnrichedCadastre, b.CoordsLink,
	}
}

// BuildingFromRow восстанавливает Building из позиционной строки.
// Короткие строки (ручные правки таблицы) дополняются пустыми значениями
func BuildingFromRow(row []string) *Building {
	row = padRow(row, len(BuildingColumns))
	return &Building{
		ID: row[0], Address: row[1], CadastreNumber: row[2], AddressID: row[3],
		TotalArea: row[4], ResidentialArea: row[5], BuiltYear: row[6], ControlMethod: row[7],
		ManagementINN: row[8], ResourceSupplyINNs: row[9],
		CardLink: row[10], OrgsLink: row[11], PassportLink: row[12],
		RegionCode: row[13], PostalCode: row[14], Settlement: row[15], Street: row[16],
		HouseNumber: row[17], EnrichedCadastre: row[18], CoordsLink: row[19],
	}
}

// MarkError записывает сентинел ошибки во все поля, кроме адреса:
// адрес сохраняется, чтобы оператор видел, какой дом не удалось обработать
func (b *Building) MarkError() {
	addr := b.Address
	*b = Building{
		ID: ErrorValue, Address: addr, CadastreNumber: ErrorValue, AddressID: ErrorValue,
		TotalArea: ErrorValue, ResidentialArea: ErrorValue, BuiltYear: ErrorValue,
		ControlMethod: ErrorValue, ManagementINN: ErrorValue, ResourceSupplyINNs: ErrorValue,
		CardLink: ErrorValue, OrgsLink: ErrorValue, PassportLink: ErrorValue,
		RegionCode: ErrorValue, PostalCode: ErrorValue, Settlement: ErrorValue,
		Street: ErrorValue, HouseNumber: ErrorValue, EnrichedCadastre: ErrorValue,
		CoordsLink: ErrorValue,
	}
}

// MarkEnrichmentError записывает сентинел только в поля обогащения
func (b *Building) MarkEnrichmentError() {
	b.RegionCode = ErrorValue
	b.PostalCode = ErrorValue
	b.Settlement = ErrorValue
	b.Street = ErrorValue
	b.HouseNumber = ErrorValue
	b.EnrichedCadastre = ErrorValue
	b.CoordsLink = ErrorValue
}

func padRow(row []string, size int) []string {
	if len(row) >= size {
		return row[:size]
	}
	padded := make([]string, size)
	copy(padded, row)
	return padded
}
