package usecase

import (
	"context"
	"sync"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// fakeFetcher - управляемый двойник портала для тестов
type fakeFetcher struct {
	mu sync.Mutex

	card      *domain.BuildingCard
	cardErr   error
	cardCalls int

	searchGUID  string
	searchCalls int

	orgs     map[string]*domain.Organization
	orgCalls int

	stubs     *domain.RoomStubs
	stubCalls int

	details      map[string]*domain.RoomDetail
	detailCalls  int
	onDetailCall func(calls int)
}

func (f *fakeFetcher) FetchBuildingCard(_ context.Context, _ string) (*domain.BuildingCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cardCalls++
	if f.cardErr != nil {
		return nil, f.cardErr
	}
	card := *f.card
	return &card, nil
}

func (f *fakeFetcher) SearchBuildingByCadastre(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.searchGUID, nil
}

func (f *fakeFetcher) FetchOrganization(_ context.Context, orgGUID string) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgCalls++
	org := *f.orgs[orgGUID]
	return &org, nil
}

func (f *fakeFetcher) FetchRoomStubs(_ context.Context, _ string) (*domain.RoomStubs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubCalls++
	return f.stubs, nil
}

func (f *fakeFetcher) FetchRoomDetail(_ context.Context, _, paramCode string) (*domain.RoomDetail, error) {
	f.mu.Lock()
	f.detailCalls++
	calls := f.detailCalls
	hook := f.onDetailCall
	detail, ok := f.details[paramCode]
	f.mu.Unlock()

	if hook != nil {
		hook(calls)
	}
	if !ok {
		return &domain.RoomDetail{}, nil
	}
	copied := *detail
	return &copied, nil
}

func (f *fakeFetcher) counts() (card, search, org, stub, detail int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cardCalls, f.searchCalls, f.orgCalls, f.stubCalls, f.detailCalls
}

// fakeEnricher - двойник сервиса нормализации
type fakeEnricher struct {
	mu sync.Mutex

	addresses map[string]*domain.AddressRecord // по строке адреса
	cadastres map[string]*domain.AddressRecord // по кадастровому номеру
	parties   map[string]*domain.PartyRecord

	addressErr error
	partyErr   error
}

func (f *fakeEnricher) ResolveAddress(_ context.Context, address string) (*domain.AddressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addressErr != nil {
		return nil, f.addressErr
	}
	return f.addresses[address], nil
}

func (f *fakeEnricher) ResolveAddressByCadastre(_ context.Context, cadNum string) (*domain.AddressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addressErr != nil {
		return nil, f.addressErr
	}
	return f.cadastres[cadNum], nil
}

func (f *fakeEnricher) ResolveOrganization(_ context.Context, inn string) (*domain.PartyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.partyErr != nil {
		return nil, f.partyErr
	}
	return f.parties[inn], nil
}

// fakeEvents копит опубликованные события
type fakeEvents struct {
	mu     sync.Mutex
	events []domain.CollectionEvent
}

func (f *fakeEvents) Publish(_ context.Context, event domain.CollectionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make([]string, len(f.events))
	for i, e := range f.events {
		kinds[i] = e.Kind
	}
	return kinds
}
