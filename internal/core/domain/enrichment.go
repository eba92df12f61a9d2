package domain

// AddressRecord - нормализованный адрес из сервиса dadata.
// Набор полей ограничен тем, что реально используется при заполнении записей
type AddressRecord struct {
	Result        string // каноническая строка адреса
	PostalCode    string
	RegionKladrID string
	RegionFiasID  string
	CityWithType  string
	StreetWithTyp string
	House         string
	HouseCadnum   string

	FlatFiasID string
	FlatCadnum string
	Flat       string
	FlatArea   string
	Floor      string

	FiasID    string
	FiasLevel string

	GeoLat string
	GeoLon string

	// Производные значения
	MapsLink string // ссылка на карту по координатам
	Geohash  string // геохэш точки (пустой, если координат нет)
}

// RegionCode возвращает код субъекта РФ: КЛАДР-код региона без нулей
func (a *AddressRecord) RegionCode() string {
	code := a.RegionKladrID
	out := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		if code[i] != '0' {
			out = append(out, code[i])
		}
	}
	return string(out)
}

// PartyRecord - сведения о юрлице из сервиса dadata (поиск по ИНН)
type PartyRecord struct {
	INN         string
	OGRN        string
	KPP         string
	ShortName   string
	State       string // статус юрлица: ACTIVE, LIQUIDATED, ...
	EIOName     string // единоличный исполнительный орган
	EIOPosition string
	Emails      []string
}
