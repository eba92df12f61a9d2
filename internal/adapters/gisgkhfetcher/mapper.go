package gisgkhfetcher

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/firs-iln/gkh-bot/internal/constants"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// toBuildingCard извлекает из карточки дома только используемые поля
func toBuildingCard(body []byte) *domain.BuildingCard {
	data := gjson.ParseBytes(body)

	// У старых домов вместо года постройки заполнен год ввода в эксплуатацию
	year := data.Get("buildingYear").String()
	if year == "" {
		year = data.Get("operationYear").String()
	}

	card := &domain.BuildingCard{
		HouseGUID:             data.Get("guid").String(),
		AddressGUID:           data.Get("address.house.guid").String(),
		FormattedAddress:      data.Get("address.formattedAddress").String(),
		CadastreNumber:        data.Get("cadastreNumber").String(),
		ManagementTypeName:    data.Get("houseManagementType.houseManagementTypeName").String(),
		TotalSquare:           data.Get("totalSquare").String(),
		ResidentialSquare:     data.Get("residentialSquare").String(),
		BuildingYear:          year,
		ManagementOrgGUID:     data.Get("managementOrganization.guid").String(),
		ManagementOrgRootGUID: data.Get("managementOrganization.registryOrganizationRootEntityGuid").String(),
	}
	for _, item := range data.Get("resourceProvisionOrganizationList.#.guid").Array() {
		card.ResourceOrgGUIDs = append(card.ResourceOrgGUIDs, item.String())
	}
	return card
}

func buildingGUIDFromSearch(body []byte) string {
	return gjson.GetBytes(body, "items.0.guid").String()
}

// toOrganization собирает организацию из карточки и пакета доп.сведений
func toOrganization(card, additionalInfo []byte) *domain.Organization {
	data := gjson.ParseBytes(card)
	info := gjson.GetBytes(additionalInfo, "additionalInfos.0")

	name := data.Get("shortName").String()
	if name == "" {
		name = data.Get("fullName").String()
	}

	var dispatcherPhones []string
	for _, phone := range info.Get("dispatcherPhones").Array() {
		dispatcherPhones = append(dispatcherPhones, phone.String())
	}

	return &domain.Organization{
		INN:           data.Get("inn").String(),
		Name:          name,
		Region:        regionLabel(data.Get("factualAddress.region")),
		OGRN:          data.Get("ogrn").String(),
		RegDate:       formatRegDate(data.Get("stateRegistrationDate").String()),
		KPP:           data.Get("kpp").String(),
		Email:         data.Get("orgEmail").String(),
		Phone:         domain.ExtractDigits(data.Get("phone").String()),
		DispatchPhone: strings.Join(dispatcherPhones, ";"),
		ChiefName:     info.Get("chiefInfo.fio").String(),
		ChiefPosition: info.Get("chiefInfo.position").String(),
		AllFunctions:  organizationFunctions(data.Get("organizationRoles")),
	}
}

// formatRegDate переводит дату регистрации из формата портала в ДД.ММ.ГГГГ
func formatRegDate(raw string) string {
	if raw == "" {
		return ""
	}
	date, err := time.Parse("2006-01-02 15:04:05", raw)
	if err != nil {
		return raw
	}
	return date.Format("02.01.2006")
}

// regionLabel формирует название субъекта РФ. Города федерального значения
// пишутся без краткой формы типа
func regionLabel(region gjson.Result) string {
	offName := region.Get("offName").String()
	if _, ok := constants.FederalCities[offName]; ok {
		return offName
	}
	return offName + " " + region.Get("shortName").String()
}

// organizationFunctions сводит роли организации в строку пар роль=адрес
func organizationFunctions(roles gjson.Result) string {
	var parts []string
	for _, role := range roles.Array() {
		name := role.Get("role.organizationRoleName").String()
		switch name {
		case constants.RoleNameManagement:
			name = domain.RoleManagement
		case constants.RoleNameResourceSupply:
			name = domain.RoleResourceSupply
		case constants.RoleNameHomeowners:
			name = domain.RoleHomeowners
		}

		address := role.Get("house.formattedAddress").String()
		if address == "" {
			if region := role.Get("region"); region.Exists() {
				address = regionLabel(region)
			} else {
				address = constants.RoleAddressMissing
			}
		}
		parts = append(parts, name+"="+address)
	}
	return strings.Join(parts, ";")
}

func toRoomStubs(residential, nonResidential []byte) *domain.RoomStubs {
	return &domain.RoomStubs{
		Residential:    parseStubs(residential),
		NonResidential: parseStubs(nonResidential),
	}
}

func parseStubs(body []byte) []domain.RoomStub {
	var stubs []domain.RoomStub
	for _, item := range gjson.GetBytes(body, "parameters").Array() {
		stubs = append(stubs, domain.RoomStub{
			Number:        item.Get("value").String(),
			ParamCode:     item.Get("paramCode").String(),
			FromRosreestr: item.Get("valueFromRR").Bool(),
		})
	}
	return stubs
}

// toRoomDetail читает первые семь параметров помещения по позициям:
// другого способа адресации портал в этом ответе не дает
func toRoomDetail(body []byte) *domain.RoomDetail {
	params := gjson.GetBytes(body, "parameters").Array()
	value := func(i int) string {
		if i < len(params) {
			return params[i].Get("value").String()
		}
		return ""
	}
	return &domain.RoomDetail{
		CadastreNumber:      value(0),
		UstNumber:           value(1),
		TotalSquare:         value(2),
		ResidentialOrPublic: value(3),
		RoomsCount:          value(4),
		Entrance:            value(5),
		Emergency:           value(6),
	}
}
