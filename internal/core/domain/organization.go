package domain

// Роли организаций по отношению к дому
const (
	RoleManagement     = "УО"  // управляющая организация
	RoleResourceSupply = "РСО" // ресурсоснабжающая организация
	RoleHomeowners     = "ТСЖ"
)

// Статусы юрлица по данным сервиса нормализации
var OrgStateLabels = map[string]string{
	"ACTIVE":       "действующая",
	"LIQUIDATING":  "ликвидируется",
	"LIQUIDATED":   "ликвидирована",
	"BANKRUPT":     "банкротство",
	"REORGANIZING": "в процессе присоединения к другому юрлицу, с последующей ликвидацией",
}

// Organization - организация из реестра поставщиков информации ГИС ЖКХ.
// Идентичность при поиске в таблице - ссылка organizationView, внешняя идентичность - ИНН
type Organization struct {
	INN           string
	Role          string // УО / РСО
	Name          string
	Region        string
	OGRN          string
	RegDate       string // ДД.ММ.ГГГГ
	KPP           string
	Email         string
	Phone         string
	DispatchPhone string // телефоны диспетчерской через точку с запятой
	ChiefName     string
	ChiefPosition string
	AllFunctions  string // пары роль=адрес через точку с запятой
	Link          string

	// Поля, заполняемые по ИНН из сервиса нормализации
	State        string
	ShortName    string
	DadataOGRN   string
	EIOName      string
	EIOPosition  string
	DadataPhone  string
	DadataEmail  string
	DadataLink   string
}

// OrganizationColumns - фиксированный порядок колонок таблицы Организации
var OrganizationColumns = []string{
	"ИНН организации", "Статус исп-ля", "Наименование организации", "Субъект РФ", "ОГРН",
	"Дата гос. регистрации", "КПП", "E-mail", "Контактный телефон", "Тел. диспетчерской",
	"ФИО руководителя", "Должность руководителя", "Все Функции", "Ссылка",
	"Статус", "Наименование краткое", "ОГРН (dadata)", "ФИО ЕИО", "Должность ЕИО",
	"Телефон", "Email", "Ссылка 5",
}

func (o *Organization) RowValues() []string {
	return []string{
		o.INN, o.Role, o.Name, o.Region, o.OGRN,
		o.RegDate, o.KPP, o.Email, o.Phone, o.DispatchPhone,
		o.ChiefName, o.ChiefPosition, o.AllFunctions, o.Link,
		o.State, o.ShortName, o.DadataOGRN, o.EIOName, o.EIOPosition,
		o.DadataPhone, o.DadataEmail, o.DadataLink,
	}
}

func OrganizationFromRow(row []string) *Organization {
	row = padRow(row, len(OrganizationColumns))
	return &Organization{
		INN: row[0], Role: row[1], Name: row[2], Region: row[3], OGRN: row[4],
		RegDate: row[5], KPP: row[6], Email: row[7], Phone: row[8], DispatchPhone: row[9],
		ChiefName: row[10], ChiefPosition: row[11], AllFunctions: row[12], Link: row[13],
		State: row[14], ShortName: row[15], DadataOGRN: row[16], EIOName: row[17],
		EIOPosition: row[18], DadataPhone: row[19], DadataEmail: row[20], DadataLink: row[21],
	}
}

// Equal сравнивает все поля. Используется при проверке «запись изменилась
// с прошлого сохранения» - такие записи удаляются и вставляются заново
func (o *Organization) Equal(other *Organization) bool {
	if other == nil {
		return false
	}
	return *o == *other
}
