package gisgkhfetcher

import (
	"context"
	"fmt"

	"github.com/firs-iln/gkh-bot/internal/constants"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

type additionalInfoRequest struct {
	OrganizationGuids []string `json:"organizationGuids"`
}

// FetchOrganization возвращает организацию с заполненными полями портала.
// Карточка и доп.сведения лежат за разными эндпоинтами, причем доп.сведения
// отдаются только батчами - запрашиваем батч из одного guid
func (a *GisGkhFetcherAdapter) FetchOrganization(ctx context.Context, orgGUID string) (*domain.Organization, error) {
	card, err := a.getJSON(ctx, fmt.Sprintf("%s/orgByGuid?organizationGuid=%s", constants.OrganizationEndpoint, orgGUID))
	if err != nil {
		return nil, fmt.Errorf("gis-gkh adapter (Organization): %w", err)
	}

	additionalInfo, err := a.postJSON(ctx, fmt.Sprintf("%s/additionalinfo", constants.OrganizationEndpoint),
		additionalInfoRequest{OrganizationGuids: []string{orgGUID}})
	if err != nil {
		return nil, fmt.Errorf("gis-gkh adapter (Organization): %w", err)
	}

	return toOrganization(card, additionalInfo), nil
}
