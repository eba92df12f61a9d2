package gisgkhfetcher

import (
	"context"
	"fmt"

	"github.com/firs-iln/gkh-bot/internal/constants"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

// FetchBuildingCard возвращает разобранную карточку дома по guid
func (a *GisGkhFetcherAdapter) FetchBuildingCard(ctx context.Context, houseGUID string) (*domain.BuildingCard, error) {
	body, err := a.getJSON(ctx, fmt.Sprintf("%s/%s", constants.HousesEndpoint, houseGUID))
	if err != nil {
		return nil, fmt.Errorf("gis-gkh adapter (BuildingCard): %w", err)
	}
	return toBuildingCard(body), nil
}

// searchByAddressRequest повторяет форму запроса фронтенда портала:
// все неиспользуемые фильтры передаются явными null
type searchByAddressRequest struct {
	RegionCode                 string   `json:"regionCode"`
	FiasHouseCodeList          any      `json:"fiasHouseCodeList"`
	EstStatus                  any      `json:"estStatus"`
	StrStatus                  any      `json:"strStatus"`
	CalcCount                  bool     `json:"calcCount"`
	HouseConditionRefList      any      `json:"houseConditionRefList"`
	HouseTypeRefList           any      `json:"houseTypeRefList"`
	HouseManagementTypeRefList any      `json:"houseManagementTypeRefList"`
	CadastreNumber             string   `json:"cadastreNumber"`
	Oktmo                      any      `json:"oktmo"`
	Statuses                   []string `json:"statuses"`
	RegionProperty             any      `json:"regionProperty"`
	MunicipalProperty          any      `json:"municipalProperty"`
	HostelTypeCodes            any      `json:"hostelTypeCodes"`
}

// SearchBuildingByCadastre ищет дом по коду региона и кадастровому номеру
func (a *GisGkhFetcherAdapter) SearchBuildingByCadastre(ctx context.Context, regionFiasID, cadNum string) (string, error) {
	request := searchByAddressRequest{
		RegionCode:     regionFiasID,
		CalcCount:      true,
		CadastreNumber: cadNum,
		Statuses:       []string{"APPROVED"},
	}
	body, err := a.postJSON(ctx, constants.HouseSearchEndpoint, request)
	if err != nil {
		return "", fmt.Errorf("gis-gkh adapter (SearchByCadastre): %w", err)
	}

	guid := buildingGUIDFromSearch(body)
	if guid == "" {
		a.logger.Warn("house not found by cadastre", port.Fields{"cadastre_number": cadNum, "region": regionFiasID})
		return "", fmt.Errorf("gis-gkh adapter (SearchByCadastre): house with cadastre %q: %w", cadNum, domain.ErrNotFound)
	}
	return guid, nil
}
