package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

// Виды событий жизненного цикла сбора
const (
	EventCollectionStarted   = "collection.started"
	EventCollectionCompleted = "collection.completed"
	EventCollectionCancelled = "collection.cancelled"
)

// CollectRoomsUseCase - оркестратор сбора помещений дома.
// Сбор долгий (пауза после каждого помещения), поэтому он приостанавливаемый,
// отменяемый и возобновляемый: уже сохраненные помещения не запрашиваются
// повторно. Одновременно во всем процессе идет не более одного сбора
type CollectRoomsUseCase struct {
	fetcher  port.GisGkhFetcherPort
	enricher port.EnrichmentPort
	store    port.TableStorePort
	events   port.CollectionEventsPort // nil, если публикация событий не настроена
	logger   port.LoggerPort

	cooldown   time.Duration
	pollPeriod time.Duration

	mu        sync.Mutex
	cond      *sync.Cond
	state     domain.CollectionState
	status    domain.CollectionStatus
	paused    bool
	cancelled bool
	cancelRun context.CancelFunc
}

// NewCollectRoomsUseCase создает новый экземпляр use case.
// cooldown - пауза после каждого помещения, pollPeriod - период опроса
// занятости при ожидании чужого сбора
func NewCollectRoomsUseCase(
	fetcher port.GisGkhFetcherPort,
	enricher port.EnrichmentPort,
	store port.TableStorePort,
	events port.CollectionEventsPort,
	logger port.LoggerPort,
	cooldown time.Duration,
	pollPeriod time.Duration,
) *CollectRoomsUseCase {
	uc := &CollectRoomsUseCase{
		fetcher:    fetcher,
		enricher:   enricher,
		store:      store,
		events:     events,
		logger:     logger,
		cooldown:   cooldown,
		pollPeriod: pollPeriod,
		state:      domain.CollectionIdle,
	}
	uc.cond = sync.NewCond(&uc.mu)
	return uc
}

// Execute выполняет полный обход помещений дома.
// Если другой сбор уже идет, вызов ждет его завершения и стартует следом
func (uc *CollectRoomsUseCase) Execute(ctx context.Context, building *domain.Building, recollect bool) ([]*domain.Room, error) {
	if err := uc.acquire(ctx, building); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	uc.mu.Lock()
	uc.cancelRun = cancel
	uc.mu.Unlock()
	defer cancel()

	rooms, err := uc.run(runCtx, building, recollect)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionCancelled) {
			uc.finish(ctx, building, domain.CollectionCancelled)
		} else {
			// Частичные данные остаются: следующий запуск продолжит с них
			uc.release()
		}
		return nil, err
	}
	uc.finish(ctx, building, domain.CollectionCompleted)
	return rooms, nil
}

// release освобождает слот сбора, не трогая сохраненные строки
func (uc *CollectRoomsUseCase) release() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = domain.CollectionIdle
	uc.status.State = domain.CollectionIdle
	uc.cancelRun = nil
}

// acquire занимает единственный слот сбора, при занятости опрашивая
// состояние каждые pollPeriod
func (uc *CollectRoomsUseCase) acquire(ctx context.Context, building *domain.Building) error {
	for {
		uc.mu.Lock()
		if uc.state != domain.CollectionRunning && uc.state != domain.CollectionPaused {
			uc.state = domain.CollectionRunning
			uc.paused = false
			uc.cancelled = false
			uc.status = domain.CollectionStatus{
				State:      domain.CollectionRunning,
				BuildingID: building.ID,
				Address:    building.Address,
			}
			uc.mu.Unlock()
			return nil
		}
		uc.mu.Unlock()

		uc.logger.Debug("collection slot is busy, waiting", port.Fields{"building_id": building.ID})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(uc.pollPeriod):
		}
	}
}

func (uc *CollectRoomsUseCase) run(ctx context.Context, building *domain.Building, recollect bool) ([]*domain.Room, error) {
	if recollect {
		if err := uc.deleteRooms(ctx, building.ID); err != nil {
			return nil, err
		}
	}

	// Ранее сохраненные помещения не запрашиваются повторно
	collected, err := uc.RoomsByBuildingID(ctx, building.ID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(collected))
	for _, room := range collected {
		seen[roomKey(room.Number, room.Status)] = struct{}{}
	}

	guid, err := domain.GUIDFromCardLink(building.CardLink)
	if err != nil {
		return nil, err
	}

	stubs, err := uc.fetcher.FetchRoomStubs(ctx, guid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room stubs: %w", err)
	}
	total := len(stubs.Residential) + len(stubs.NonResidential)

	uc.mu.Lock()
	uc.status.Resumed = len(collected)
	uc.status.Total = total
	uc.mu.Unlock()

	uc.publish(ctx, EventCollectionStarted, building, len(collected), 0, total)
	uc.logger.Info("room collection started", port.Fields{
		"building_id": building.ID, "total": total, "resumed": len(collected),
	})

	groups := []struct {
		stubs  []domain.RoomStub
		status string
	}{
		{stubs.Residential, domain.RoomResidential},
		{stubs.NonResidential, domain.RoomNonResidential},
	}
	for _, group := range groups {
		for _, stub := range group.stubs {
			if err := uc.waitIfPaused(ctx); err != nil {
				return nil, err
			}
			if _, ok := seen[roomKey(stub.Number, group.status)]; ok {
				continue
			}

			room, err := uc.collectRoom(ctx, building, guid, stub, group.status)
			if err != nil {
				return nil, err
			}
			if err := uc.store.AppendRow(ctx, port.TableRooms, room.RowValues()); err != nil {
				return nil, fmt.Errorf("failed to append room row: %w", err)
			}
			collected = append(collected, room)
			seen[roomKey(room.Number, room.Status)] = struct{}{}

			uc.mu.Lock()
			uc.status.Collected++
			uc.mu.Unlock()

			// Пауза вежливости после каждого помещения
			select {
			case <-ctx.Done():
				return nil, uc.interruption(ctx)
			case <-time.After(uc.cooldown):
			}
		}
	}

	return collected, nil
}

// collectRoom запрашивает параметры помещения и собирает запись
func (uc *CollectRoomsUseCase) collectRoom(ctx context.Context, building *domain.Building, guid string, stub domain.RoomStub, status string) (*domain.Room, error) {
	detail, err := uc.fetcher.FetchRoomDetail(ctx, guid, stub.ParamCode)
	if err != nil {
		if ctx.Err() != nil {
			return nil, uc.interruption(ctx)
		}
		return nil, fmt.Errorf("failed to fetch room %s detail: %w", stub.Number, err)
	}

	room := &domain.Room{
		BuildingID:      building.ID,
		Number:          stub.Number,
		Status:          status,
		CadastreNumber:  detail.CadastreNumber,
		StatutoryNumber: detail.UstNumber,
		TotalArea:       detail.TotalSquare,
	}
	if stub.FromRosreestr {
		room.FromRosreestr = "Да"
	}
	if room.CadastreNumber != "" {
		room.ID = domain.NormalizeCadastre(room.CadastreNumber)
	}

	if status == domain.RoomResidential {
		room.ResidentialArea = detail.ResidentialOrPublic
		room.RoomsCount = domain.ExtractDigits(detail.RoomsCount)
		room.EntranceNumber = detail.Entrance
		if detail.Emergency != "" {
			room.IsEmergency = "Да"
		}
	} else if publicity := strings.ToLower(detail.ResidentialOrPublic); publicity != "" && publicity != "нет" {
		// Нежилое помещение с признаком общего имущества
		room.Status = domain.RoomCommonProperty
	}
	room.Address = domain.RoomAddress(building.Address, room.Number, room.Status)

	uc.enrich(ctx, room)
	return room, nil
}

// enrich заполняет адресные поля помещения. Поиск идет по кадастровому
// номеру помещения, при его отсутствии - по строке адреса
func (uc *CollectRoomsUseCase) enrich(ctx context.Context, room *domain.Room) {
	var record *domain.AddressRecord
	var err error

	if room.CadastreNumber != "" {
		record, err = uc.enricher.ResolveAddressByCadastre(ctx, room.CadastreNumber)
	}
	if err == nil && record != nil {
		room.FiasGarCode = record.FlatFiasID
	} else if err == nil {
		record, err = uc.enricher.ResolveAddress(ctx, room.Address)
		if err == nil && record != nil {
			room.FiasGarCode = record.FiasID
		}
	}

	if err != nil || record == nil {
		if err != nil {
			uc.logger.Warn("room enrichment failed", port.Fields{"number": room.Number, "error": err.Error()})
			room.MarkEnrichmentError()
		}
		return
	}

	room.DadataNumber = record.Flat
	room.DadataCadastre = record.FlatCadnum
	room.DadataArea = record.FlatArea
	room.Floor = record.FiasLevel
	if record.HouseCadnum != "" {
		room.DadataBuilding = domain.NormalizeCadastre(record.HouseCadnum)
	}
}

// waitIfPaused блокирует обход, пока сбор приостановлен
func (uc *CollectRoomsUseCase) waitIfPaused(ctx context.Context) error {
	uc.mu.Lock()
	for uc.paused && !uc.cancelled {
		uc.cond.Wait()
	}
	cancelled := uc.cancelled
	uc.mu.Unlock()

	if cancelled || ctx.Err() != nil {
		return uc.interruption(ctx)
	}
	return nil
}

// interruption различает отмену оператором и обрыв контекста
func (uc *CollectRoomsUseCase) interruption(ctx context.Context) error {
	uc.mu.Lock()
	cancelled := uc.cancelled
	uc.mu.Unlock()
	if cancelled {
		return domain.ErrCollectionCancelled
	}
	return ctx.Err()
}

// finish завершает сбор: при отмене удаляет все строки дома и публикует
// событие, при успехе публикует итог. Слот сбора освобождается
func (uc *CollectRoomsUseCase) finish(ctx context.Context, building *domain.Building, state domain.CollectionState) {
	uc.mu.Lock()
	if uc.cancelled {
		state = domain.CollectionCancelled
	}
	uc.state = state
	uc.status.State = state
	collected := uc.status.Collected
	resumed := uc.status.Resumed
	total := uc.status.Total
	uc.cancelRun = nil
	uc.mu.Unlock()

	if state == domain.CollectionCancelled {
		// Отмененный сбор не оставляет частичных данных
		if err := uc.deleteRooms(context.WithoutCancel(ctx), building.ID); err != nil {
			uc.logger.Error("failed to delete rooms of cancelled collection", err, port.Fields{"building_id": building.ID})
		}
		uc.publish(ctx, EventCollectionCancelled, building, resumed, collected, total)
		uc.logger.Info("room collection cancelled", port.Fields{"building_id": building.ID})
		return
	}

	uc.publish(ctx, EventCollectionCompleted, building, resumed, collected, total)
	uc.logger.Info("room collection completed", port.Fields{
		"building_id": building.ID, "collected": collected, "resumed": resumed,
	})
}

// Pause приостанавливает текущий сбор, сохраняя состояние
func (uc *CollectRoomsUseCase) Pause() error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.state != domain.CollectionRunning {
		return domain.ErrNoActiveCollection
	}
	uc.paused = true
	uc.state = domain.CollectionPaused
	uc.status.State = domain.CollectionPaused
	return nil
}

// Resume продолжает приостановленный сбор
func (uc *CollectRoomsUseCase) Resume() error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.state != domain.CollectionPaused {
		return domain.ErrNoActiveCollection
	}
	uc.paused = false
	uc.state = domain.CollectionRunning
	uc.status.State = domain.CollectionRunning
	uc.cond.Broadcast()
	return nil
}

// Cancel прерывает сбор и удаляет все сохраненные помещения дома
func (uc *CollectRoomsUseCase) Cancel() error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.state != domain.CollectionRunning && uc.state != domain.CollectionPaused {
		return domain.ErrNoActiveCollection
	}
	uc.cancelled = true
	uc.paused = false
	uc.cond.Broadcast()
	if uc.cancelRun != nil {
		uc.cancelRun()
	}
	return nil
}

// Status возвращает снимок состояния оркестратора
func (uc *CollectRoomsUseCase) Status() domain.CollectionStatus {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.status
}

// RoomsByBuildingID возвращает сохраненные помещения дома
func (uc *CollectRoomsUseCase) RoomsByBuildingID(ctx context.Context, buildingID string) ([]*domain.Room, error) {
	matches, err := uc.store.FindAll(ctx, port.TableRooms, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms of building %s: %w", buildingID, err)
	}
	rooms := make([]*domain.Room, 0, len(matches))
	for _, row := range matches {
		cells, err := uc.store.ReadRow(ctx, port.TableRooms, row)
		if err != nil {
			return nil, fmt.Errorf("failed to read room row: %w", err)
		}
		rooms = append(rooms, domain.RoomFromRow(cells))
	}
	return rooms, nil
}

// deleteRooms удаляет все строки помещений дома одним непрерывным диапазоном:
// помещения одного дома всегда дописываются подряд
func (uc *CollectRoomsUseCase) deleteRooms(ctx context.Context, buildingID string) error {
	matches, err := uc.store.FindAll(ctx, port.TableRooms, buildingID)
	if err != nil {
		return fmt.Errorf("failed to find rooms of building %s: %w", buildingID, err)
	}
	if len(matches) == 0 {
		return nil
	}
	if err := uc.store.DeleteRowRange(ctx, port.TableRooms, matches[0], matches[len(matches)-1]); err != nil {
		return fmt.Errorf("failed to delete rooms of building %s: %w", buildingID, err)
	}
	return nil
}

func (uc *CollectRoomsUseCase) publish(ctx context.Context, kind string, building *domain.Building, resumed, collected, total int) {
	if uc.events == nil {
		return
	}
	event := domain.CollectionEvent{
		Kind:       kind,
		BuildingID: building.ID,
		Address:    building.Address,
		Collected:  collected,
		Resumed:    resumed,
		Total:      total,
	}
	if err := uc.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		uc.logger.Warn("failed to publish collection event", port.Fields{"kind": kind, "error": err.Error()})
	}
}

// Ключ помещения внутри дома: номер различим только вместе с категорией
func roomKey(number, status string) string {
	class := "residential"
	if status != domain.RoomResidential {
		class = "non-residential"
	}
	return number + "|" + class
}
