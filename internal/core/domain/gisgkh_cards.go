package domain

// BuildingCard - разобранная карточка дома из ГИС ЖКХ.
// Значения хранятся как есть, в строках портала;
// форматирование и обогащение выполняет сценарий
type BuildingCard struct {
	HouseGUID             string
	AddressGUID           string
	FormattedAddress      string
	CadastreNumber        string
	ManagementTypeName    string
	TotalSquare           string
	ResidentialSquare     string
	BuildingYear          string
	ManagementOrgGUID     string
	ManagementOrgRootGUID string
	ResourceOrgGUIDs      []string
}

// RoomDetail - первые семь параметров помещения из эл.паспорта.
// Смысл третьего параметра зависит от категории: для жилых это
// жилая площадь, для нежилых - признак общего имущества
type RoomDetail struct {
	CadastreNumber      string
	UstNumber           string
	TotalSquare         string
	ResidentialOrPublic string
	RoomsCount          string
	Entrance            string
	Emergency           string
}
