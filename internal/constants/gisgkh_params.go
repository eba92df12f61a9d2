package constants

import "time"

// Эндпоинты ГИС ЖКХ
const (
	GisGkhDomain = "dom.gosuslugi.ru"

	HousesEndpoint       = "https://dom.gosuslugi.ru/homemanagement/api/rest/services/houses/public/1"
	HouseSearchEndpoint  = "https://dom.gosuslugi.ru/homemanagement/api/rest/services/houses/public/searchByAddress?pageIndex=1&elementsPerPage=10"
	OrganizationEndpoint = "https://dom.gosuslugi.ru/ppa/api/rest/services/ppa/public/organizations"
	PassportEndpoint     = "https://dom.gosuslugi.ru/homemanagement/api/rest/services/passports/search"
)

// Коды параметров эл.паспорта: перечни жилых и нежилых помещений
const (
	PassportParamResidential    = "17"
	PassportParamNonResidential = "18"
)

// RoomsPageSize - размер страницы при перечислении помещений.
// Большая страница позволяет обойтись одним запросом на категорию
const RoomsPageSize = 500

// Паузы вежливости к порталу: он жестко ограничивает частоту запросов
const (
	RoomFetchCooldown = 10 * time.Second // после каждого помещения
	OrgFetchCooldown  = 15 * time.Second // после каждой организации
	RunningPollPeriod = 10 * time.Second // ожидание завершения чужого сбора
)

// Названия ролей организаций в ответах портала
const (
	RoleNameManagement     = "Управляющая организация"
	RoleNameResourceSupply = "Ресурсоснабжающая организация"
	RoleNameHomeowners     = "Товарищество собственников жилья"
)

// RoleAddressMissing подставляется, когда к роли нельзя привязать адрес или регион
const RoleAddressMissing = "Не указывается"

// Города федерального значения: регион пишется без краткой формы типа
var FederalCities = map[string]struct{}{
	"Санкт-Петербург": {},
	"Москва":          {},
	"Севастополь":     {},
}
