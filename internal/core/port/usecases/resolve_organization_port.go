package usecases

import (
	"context"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// ResolveOrganizationUseCase - получение организации по guid портала
type ResolveOrganizationUseCase interface {
	// Execute возвращает организацию с указанной ролью.
	// При попадании в хранилище сетевых запросов не выполняется
	Execute(ctx context.Context, role, orgGUID string) (*domain.Organization, error)

	// SaveAll сохраняет организации с дедупликацией по ссылке
	SaveAll(ctx context.Context, orgs []*domain.Organization) error

	// FindByINNs возвращает сохраненные организации по списку ИНН
	FindByINNs(ctx context.Context, inns []string) ([]*domain.Organization, error)
}
