package gisgkhfetcher

import (
	"context"
	"fmt"

	"github.com/firs-iln/gkh-bot/internal/constants"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

type passportSearchRequest struct {
	HouseGuid             string `json:"houseGuid"`
	PassportParameterCode string `json:"passportParameterCode"`
	Page                  int    `json:"page"`
	ItemsPerPage          int    `json:"itemsPerPage"`
}

func (a *GisGkhFetcherAdapter) searchPassport(ctx context.Context, houseGUID, paramCode string) ([]byte, error) {
	request := passportSearchRequest{
		HouseGuid:             houseGUID,
		PassportParameterCode: paramCode,
		Page:                  1,
		ItemsPerPage:          constants.RoomsPageSize,
	}
	return a.postJSON(ctx, constants.PassportEndpoint, request)
}

// FetchRoomStubs возвращает перечни жилых и нежилых помещений из эл.паспорта
func (a *GisGkhFetcherAdapter) FetchRoomStubs(ctx context.Context, houseGUID string) (*domain.RoomStubs, error) {
	residential, err := a.searchPassport(ctx, houseGUID, constants.PassportParamResidential)
	if err != nil {
		return nil, fmt.Errorf("gis-gkh adapter (RoomStubs, residential): %w", err)
	}
	nonResidential, err := a.searchPassport(ctx, houseGUID, constants.PassportParamNonResidential)
	if err != nil {
		return nil, fmt.Errorf("gis-gkh adapter (RoomStubs, non-residential): %w", err)
	}
	return toRoomStubs(residential, nonResidential), nil
}

// FetchRoomDetail возвращает параметры одного помещения по его коду
func (a *GisGkhFetcherAdapter) FetchRoomDetail(ctx context.Context, houseGUID, paramCode string) (*domain.RoomDetail, error) {
	body, err := a.searchPassport(ctx, houseGUID, paramCode)
	if err != nil {
		return nil, fmt.Errorf("gis-gkh adapter (RoomDetail): %w", err)
	}
	return toRoomDetail(body), nil
}
