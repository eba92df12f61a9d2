package port

import (
	"context"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// GisGkhFetcherPort объединяет все операции чтения из ГИС ЖКХ.
// Реализация обязана выполнять запросы строго последовательно:
// портал не выдерживает параллельных обращений
type GisGkhFetcherPort interface {
	// FetchBuildingCard возвращает разобранную карточку дома по guid
	FetchBuildingCard(ctx context.Context, houseGUID string) (*domain.BuildingCard, error)

	// SearchBuildingByCadastre ищет дом по коду региона и кадастровому номеру,
	// возвращает guid найденного дома
	SearchBuildingByCadastre(ctx context.Context, regionFiasID, cadNum string) (string, error)

	// FetchOrganization возвращает организацию с заполненными полями портала:
	// карточка и пакет доп.сведений. Доп.сведения запрашиваются
	// батч-эндпоинтом даже для одного guid - других вариантов портал
	// не предоставляет. Роль, ссылку и обогащение проставляет сценарий
	FetchOrganization(ctx context.Context, orgGUID string) (*domain.Organization, error)

	// FetchRoomStubs возвращает перечни жилых и нежилых помещений
	// из эл.паспорта дома (по одному постраничному запросу на категорию)
	FetchRoomStubs(ctx context.Context, houseGUID string) (*domain.RoomStubs, error)

	// FetchRoomDetail возвращает параметры одного помещения по его коду
	FetchRoomDetail(ctx context.Context, houseGUID, paramCode string) (*domain.RoomDetail, error)
}
