package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger_adapter "github.com/firs-iln/gkh-bot/internal/adapters/logger"
	"github.com/firs-iln/gkh-bot/internal/adapters/tablestore"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

func collectBuilding() *domain.Building {
	return &domain.Building{
		ID:       "780600020071234",
		Address:  "г. Санкт-Петербург, ул. Мира, д. 5",
		CardLink: domain.BuildCardLink(testHouseGUID),
	}
}

func roomsFetcher() *fakeFetcher {
	return &fakeFetcher{
		stubs: &domain.RoomStubs{
			Residential: []domain.RoomStub{
				{Number: "1", ParamCode: "p-1", FromRosreestr: true},
				{Number: "2", ParamCode: "p-2", FromRosreestr: true},
				{Number: "3", ParamCode: "p-3"},
			},
			NonResidential: []domain.RoomStub{
				{Number: "10-Н", ParamCode: "p-10", FromRosreestr: true},
				{Number: "11-Н", ParamCode: "p-11"},
			},
		},
		details: map[string]*domain.RoomDetail{
			"p-1":  {CadastreNumber: "78:06:0002007:2001", TotalSquare: "54.2", ResidentialOrPublic: "31.0", RoomsCount: "2 комн.", Entrance: "1"},
			"p-2":  {CadastreNumber: "78:06:0002007:2002", TotalSquare: "38.1", ResidentialOrPublic: "20.5", RoomsCount: "1", Entrance: "1"},
			"p-3":  {TotalSquare: "61.7", ResidentialOrPublic: "40.0", RoomsCount: "3", Entrance: "2", Emergency: "аварийное"},
			"p-10": {CadastreNumber: "78:06:0002007:3001", TotalSquare: "120", ResidentialOrPublic: "нет"},
			"p-11": {TotalSquare: "15.5", ResidentialOrPublic: "Общее имущество"},
		},
	}
}

func newCollectFixture(fetcher *fakeFetcher, events *fakeEvents) (*CollectRoomsUseCase, *tablestore.MemoryStore) {
	store := tablestore.NewMemoryStore(port.TableBuildings, port.TableOrganizations, port.TableRooms)
	var eventsPort port.CollectionEventsPort
	if events != nil {
		eventsPort = events
	}
	uc := NewCollectRoomsUseCase(fetcher, &fakeEnricher{}, store, eventsPort, logger_adapter.NewNopAdapter(), 0, time.Millisecond)
	return uc, store
}

func TestCollectRoomsFullPass(t *testing.T) {
	fetcher := roomsFetcher()
	events := &fakeEvents{}
	uc, store := newCollectFixture(fetcher, events)

	rooms, err := uc.Execute(context.Background(), collectBuilding(), false)
	require.NoError(t, err)
	require.Len(t, rooms, 5)
	assert.Equal(t, 5, store.RowCount(port.TableRooms))

	byNumber := make(map[string]*domain.Room, len(rooms))
	for _, room := range rooms {
		byNumber[room.Number] = room
	}

	flat := byNumber["1"]
	assert.Equal(t, domain.RoomResidential, flat.Status)
	assert.Equal(t, "780600020072001", flat.ID)
	assert.Equal(t, "2", flat.RoomsCount)
	assert.Equal(t, "Да", flat.FromRosreestr)
	assert.Empty(t, flat.IsEmergency)
	assert.Equal(t, "г. Санкт-Петербург, ул. Мира, д. 5, кв.1", flat.Address)

	emergency := byNumber["3"]
	assert.Equal(t, "Да", emergency.IsEmergency)
	assert.Empty(t, emergency.FromRosreestr)
	assert.Empty(t, emergency.ID, "room without cadastre number has no identity key")

	nonRes := byNumber["10-Н"]
	assert.Equal(t, domain.RoomNonResidential, nonRes.Status)
	assert.Equal(t, "г. Санкт-Петербург, ул. Мира, д. 5, пом. 10-Н", nonRes.Address)

	// Нежилое с признаком общего имущества меняет статус
	common := byNumber["11-Н"]
	assert.Equal(t, domain.RoomCommonProperty, common.Status)

	assert.Equal(t, []string{EventCollectionStarted, EventCollectionCompleted}, events.kinds())
	status := uc.Status()
	assert.Equal(t, domain.CollectionCompleted, status.State)
	assert.Equal(t, 5, status.Collected)
	assert.Equal(t, 5, status.Total)
	assert.Equal(t, 0, status.Resumed)
}

func TestCollectRoomsResumesWithoutRefetch(t *testing.T) {
	fetcher := roomsFetcher()
	uc, store := newCollectFixture(fetcher, nil)

	building := collectBuilding()
	saved := &domain.Room{BuildingID: building.ID, Number: "2", Status: domain.RoomResidential}
	require.NoError(t, store.AppendRow(context.Background(), port.TableRooms, saved.RowValues()))

	rooms, err := uc.Execute(context.Background(), building, false)
	require.NoError(t, err)

	_, _, _, _, detailCalls := fetcher.counts()
	assert.Equal(t, 4, detailCalls, "stored room must not be fetched again")
	assert.Len(t, rooms, 5)
	assert.Equal(t, 5, store.RowCount(port.TableRooms))

	status := uc.Status()
	assert.Equal(t, 1, status.Resumed)
	assert.Equal(t, 4, status.Collected)
	assert.Equal(t, 5, status.Total)
}

func TestCollectRoomsRecollectDropsSavedRows(t *testing.T) {
	fetcher := roomsFetcher()
	uc, store := newCollectFixture(fetcher, nil)

	building := collectBuilding()
	saved := &domain.Room{BuildingID: building.ID, Number: "2", Status: domain.RoomResidential}
	require.NoError(t, store.AppendRow(context.Background(), port.TableRooms, saved.RowValues()))

	rooms, err := uc.Execute(context.Background(), building, true)
	require.NoError(t, err)

	_, _, _, _, detailCalls := fetcher.counts()
	assert.Equal(t, 5, detailCalls, "recollect must fetch every room anew")
	assert.Len(t, rooms, 5)
	assert.Equal(t, 5, store.RowCount(port.TableRooms))
}

func TestCollectRoomsSharesRoomNumbersAcrossCategories(t *testing.T) {
	fetcher := roomsFetcher()
	fetcher.stubs = &domain.RoomStubs{
		Residential:    []domain.RoomStub{{Number: "1", ParamCode: "p-1"}},
		NonResidential: []domain.RoomStub{{Number: "1", ParamCode: "p-10"}},
	}
	uc, store := newCollectFixture(fetcher, nil)

	rooms, err := uc.Execute(context.Background(), collectBuilding(), false)
	require.NoError(t, err)
	// Одинаковый номер в жилых и нежилых - два разных помещения
	assert.Len(t, rooms, 2)
	assert.Equal(t, 2, store.RowCount(port.TableRooms))
}

func TestCollectRoomsCancelDropsRows(t *testing.T) {
	fetcher := roomsFetcher()
	events := &fakeEvents{}
	uc, store := newCollectFixture(fetcher, events)

	fetcher.onDetailCall = func(calls int) {
		if calls == 2 {
			require.NoError(t, uc.Cancel())
		}
	}

	_, err := uc.Execute(context.Background(), collectBuilding(), false)
	require.ErrorIs(t, err, domain.ErrCollectionCancelled)

	assert.Equal(t, 0, store.RowCount(port.TableRooms), "cancelled collection must not leave rows")
	assert.Equal(t, []string{EventCollectionStarted, EventCollectionCancelled}, events.kinds())
	assert.Equal(t, domain.CollectionCancelled, uc.Status().State)

	// После отмены слот свободен для нового сбора
	fetcher.onDetailCall = nil
	rooms, err := uc.Execute(context.Background(), collectBuilding(), false)
	require.NoError(t, err)
	assert.Len(t, rooms, 5)
}

func TestCollectRoomsPauseAndResume(t *testing.T) {
	fetcher := roomsFetcher()
	uc, store := newCollectFixture(fetcher, nil)

	fetcher.onDetailCall = func(calls int) {
		if calls == 1 {
			assert.NoError(t, uc.Pause())
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(context.Background(), collectBuilding(), false)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return uc.Status().State == domain.CollectionPaused
	}, time.Second, time.Millisecond)

	// Пока сбор приостановлен, конкурирующий запуск ждет и отваливается по таймауту
	busyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := uc.Execute(busyCtx, collectBuilding(), false)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, uc.Resume())
	require.NoError(t, <-done)
	assert.Equal(t, 5, store.RowCount(port.TableRooms))
	assert.Equal(t, domain.CollectionCompleted, uc.Status().State)
}

func TestCollectRoomsControlsRequireActiveCollection(t *testing.T) {
	uc, _ := newCollectFixture(roomsFetcher(), nil)

	assert.ErrorIs(t, uc.Pause(), domain.ErrNoActiveCollection)
	assert.ErrorIs(t, uc.Resume(), domain.ErrNoActiveCollection)
	assert.ErrorIs(t, uc.Cancel(), domain.ErrNoActiveCollection)
}
