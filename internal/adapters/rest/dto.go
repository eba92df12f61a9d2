package rest

import (
	"strings"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// ResolveBuildingRequestDTO - тело POST-запроса на получение карточки дома.
// Достаточно одного из полей: ссылки на карточку либо адреса
type ResolveBuildingRequestDTO struct {
	Link    string `json:"link"`
	Address string `json:"address"`
}

// AssignCadastreRequestDTO - ручной ввод кадастрового номера оператором
type AssignCadastreRequestDTO struct {
	Link           string `json:"link"`
	CadastreNumber string `json:"cadastre_number"`
}

type CollectRoomsRequestDTO struct {
	Recollect bool `json:"recollect"`
}

type CaptureDocumentRequestDTO struct {
	Kind string `json:"kind"`
}

// BuildingDTO - представление дома в ответах API
type BuildingDTO struct {
	ID                 string   `json:"id"`
	Address            string   `json:"address"`
	CadastreNumber     string   `json:"cadastre_number"`
	TotalArea          string   `json:"total_area"`
	ResidentialArea    string   `json:"residential_area"`
	BuiltYear          string   `json:"built_year"`
	ControlMethod      string   `json:"control_method"`
	ManagementINN      string   `json:"management_inn"`
	ResourceSupplyINNs []string `json:"resource_supply_inns"`
	CardLink           string   `json:"card_link"`
	OrgsLink           string   `json:"orgs_link"`
	PassportLink       string   `json:"passport_link"`
	RegionCode         string   `json:"region_code,omitempty"`
	PostalCode         string   `json:"postal_code,omitempty"`
	Settlement         string   `json:"settlement,omitempty"`
	Street             string   `json:"street,omitempty"`
	HouseNumber        string   `json:"house_number,omitempty"`
	CoordsLink         string   `json:"coords_link,omitempty"`
}

type OrganizationDTO struct {
	INN           string `json:"inn"`
	Role          string `json:"role"`
	Name          string `json:"name"`
	ShortName     string `json:"short_name,omitempty"`
	Region        string `json:"region,omitempty"`
	OGRN          string `json:"ogrn,omitempty"`
	RegDate       string `json:"reg_date,omitempty"`
	KPP           string `json:"kpp,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	DispatchPhone string `json:"dispatch_phone,omitempty"`
	ChiefName     string `json:"chief_name,omitempty"`
	ChiefPosition string `json:"chief_position,omitempty"`
	State         string `json:"state,omitempty"`
	Link          string `json:"link"`
}

type RoomDTO struct {
	ID             string `json:"id,omitempty"`
	Number         string `json:"number"`
	Status         string `json:"status"`
	CadastreNumber string `json:"cadastre_number,omitempty"`
	TotalArea      string `json:"total_area,omitempty"`
	RoomsCount     string `json:"rooms_count,omitempty"`
	EntranceNumber string `json:"entrance_number,omitempty"`
	IsEmergency    string `json:"is_emergency,omitempty"`
	FromRosreestr  string `json:"from_rosreestr,omitempty"`
	Address        string `json:"address"`
}

// ResolveBuildingResponseDTO - дом вместе с его организациями
type ResolveBuildingResponseDTO struct {
	Building      BuildingDTO       `json:"building"`
	Organizations []OrganizationDTO `json:"organizations"`
}

// RoomsResponseDTO - помещения дома со сводкой по статусам
type RoomsResponseDTO struct {
	Rooms   []RoomDTO           `json:"rooms"`
	Summary domain.RoomsSummary `json:"summary"`
}

func toBuildingDTO(b *domain.Building) BuildingDTO {
	var supplyINNs []string
	if b.ResourceSupplyINNs != "" {
		supplyINNs = strings.Split(b.ResourceSupplyINNs, ";")
	}
	return BuildingDTO{
		ID:                 b.ID,
		Address:            b.Address,
		CadastreNumber:     b.CadastreNumber,
		TotalArea:          b.TotalArea,
		ResidentialArea:    b.ResidentialArea,
		BuiltYear:          b.BuiltYear,
		ControlMethod:      b.ControlMethod,
		ManagementINN:      b.ManagementINN,
		ResourceSupplyINNs: supplyINNs,
		CardLink:           b.CardLink,
		OrgsLink:           b.OrgsLink,
		PassportLink:       b.PassportLink,
		RegionCode:         b.RegionCode,
		PostalCode:         b.PostalCode,
		Settlement:         b.Settlement,
		Street:             b.Street,
		HouseNumber:        b.HouseNumber,
		CoordsLink:         b.CoordsLink,
	}
}

func toOrganizationDTOs(orgs []*domain.Organization) []OrganizationDTO {
	out := make([]OrganizationDTO, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, OrganizationDTO{
			INN:           org.INN,
			Role:          org.Role,
			Name:          org.Name,
			ShortName:     org.ShortName,
			Region:        org.Region,
			OGRN:          org.OGRN,
			RegDate:       org.RegDate,
			KPP:           org.KPP,
			Email:         org.Email,
			Phone:         org.Phone,
			DispatchPhone: org.DispatchPhone,
			ChiefName:     org.ChiefName,
			ChiefPosition: org.ChiefPosition,
			State:         org.State,
			Link:          org.Link,
		})
	}
	return out
}

func toRoomDTOs(rooms []*domain.Room) []RoomDTO {
	out := make([]RoomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomDTO{
			ID:             room.ID,
			Number:         room.Number,
			Status:         room.Status,
			CadastreNumber: room.CadastreNumber,
			TotalArea:      room.TotalArea,
			RoomsCount:     room.RoomsCount,
			EntranceNumber: room.EntranceNumber,
			IsEmergency:    room.IsEmergency,
			FromRosreestr:  room.FromRosreestr,
			Address:        room.Address,
		})
	}
	return out
}
