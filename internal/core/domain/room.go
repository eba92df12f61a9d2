package domain

// Статусы помещений
const (
	RoomResidential    = "КВ" // жилое помещение (квартира)
	RoomNonResidential = "НЖ" // нежилое помещение
	RoomCommonProperty = "ОИ" // общее имущество (различимо только через обогащение)
)

// Room - помещение из эл.паспорта МКД.
// Уникальность внутри дома определяется парой (номер, статус)
type Room struct {
	ID              string // кадастровый номер без двоеточий; пустой, если номер неизвестен
	BuildingID      string
	Number          string
	CadastreNumber  string
	StatutoryNumber string
	TotalArea       string
	Status          string // КВ / НЖ / ОИ
	ResidentialArea string
	RoomsCount      string
	EntranceNumber  string
	IsEmergency     string // "Да" либо пусто
	FromRosreestr   string // "Да", если значение подтверждено Росреестром
	Address         string

	// Поля, заполняемые сервисом нормализации адресов
	DadataNumber   string
	DadataCadastre string
	FiasGarCode    string
	DadataArea     string
	Floor          string
	DadataBuilding string
}

// RoomColumns - фиксированный порядок колонок таблицы Помещения
var RoomColumns = []string{
	"ID помещ", "ID МКД", "Номер", "КадНом", "УстНом", "Площадь, м2", "Статус",
	"Жилая площь", "Комнат", "Подъезд", "Аварийное", "Росреестр", "Адрес",
	"Квартира", "Кадастровый Номер", "Код ФИАС ГАР", "Площадь", "Уровень", "ID МКД (dadata)",
}

func (r *Room) RowValues() []string {
	return []string{
		r.ID, r.BuildingID, r.Number, r.CadastreNumber, r.StatutoryNumber,
		r.TotalArea, r.Status, r.ResidentialArea, r.RoomsCount, r.EntranceNumber,
		r.IsEmergency, r.FromRosreestr, r.Address,
		r.DadataNumber, r.DadataCadastre, r.FiasGarCode, r.DadataArea, r.Floor, r.DadataBuilding,
	}
}

func RoomFromRow(row []string) *Room {
	row = padRow(row, len(RoomColumns))
	return &Room{
		ID: row[0], BuildingID: row[1], Number: row[2], CadastreNumber: row[3],
		StatutoryNumber: row[4], TotalArea: row[5], Status: row[6], ResidentialArea: row[7],
		RoomsCount: row[8], EntranceNumber: row[9], IsEmergency: row[10], FromRosreestr: row[11],
		Address: row[12], DadataNumber: row[13], DadataCadastre: row[14], FiasGarCode: row[15],
		DadataArea: row[16], Floor: row[17], DadataBuilding: row[18],
	}
}

// MarkEnrichmentError записывает сентинел в поля обогащения единым блоком
func (r *Room) MarkEnrichmentError() {
	r.DadataNumber = ErrorValue
	r.DadataCadastre = ErrorValue
	r.FiasGarCode = ErrorValue
	r.DadataArea = ErrorValue
	r.Floor = ErrorValue
	r.DadataBuilding = ErrorValue
}

// RoomStub - элемент перечисления помещений из паспорта дома.
// ParamCode используется для запроса детальных параметров помещения
type RoomStub struct {
	Number        string
	ParamCode     string
	FromRosreestr bool
}

// RoomStubs - результат одного обхода паспорта: жилые и нежилые помещения
type RoomStubs struct {
	Residential    []RoomStub
	NonResidential []RoomStub
}
