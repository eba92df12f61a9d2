package usecases

import (
	"context"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// ResolveBuildingUseCase - получение карточки дома по ссылке или адресу
type ResolveBuildingUseCase interface {
	// Execute возвращает дом и связанные организации.
	// Повторный вызов с той же ссылкой не обращается к порталу
	Execute(ctx context.Context, link, address string) (*domain.Building, []*domain.Organization, error)

	// AssignCadastre дописывает кадастровый номер, введенный оператором,
	// и переназначает ключ идентичности дома
	AssignCadastre(ctx context.Context, link, cadNum string) (*domain.Building, error)

	// ListBuildings возвращает все сохраненные дома
	ListBuildings(ctx context.Context) ([]*domain.Building, error)

	// FindBuildingByID возвращает дом по ключу идентичности
	FindBuildingByID(ctx context.Context, id string) (*domain.Building, error)
}
