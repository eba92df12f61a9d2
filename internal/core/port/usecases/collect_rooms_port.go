package usecases

import (
	"context"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// CollectRoomsUseCase - длительный, приостанавливаемый и отменяемый сбор
// помещений дома. В процессе может находиться не более одного сбора
type CollectRoomsUseCase interface {
	// Execute выполняет полный обход помещений дома и возвращает
	// итоговый набор (ранее сохраненные + собранные за этот запуск).
	// Если другой сбор уже идет, вызов ждет его завершения
	Execute(ctx context.Context, building *domain.Building, recollect bool) ([]*domain.Room, error)

	// Pause приостанавливает текущий сбор, сохраняя состояние
	Pause() error

	// Resume продолжает приостановленный сбор
	Resume() error

	// Cancel прерывает сбор и удаляет все сохраненные помещения дома
	Cancel() error

	// Status возвращает снимок состояния оркестратора
	Status() domain.CollectionStatus

	// RoomsByBuildingID возвращает сохраненные помещения дома
	RoomsByBuildingID(ctx context.Context, buildingID string) ([]*domain.Room, error)
}
