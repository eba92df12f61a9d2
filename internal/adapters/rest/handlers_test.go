package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger_adapter "github.com/firs-iln/gkh-bot/internal/adapters/logger"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

type fakeBuildingsUC struct {
	execute        func(ctx context.Context, link, address string) (*domain.Building, []*domain.Organization, error)
	assignCadastre func(ctx context.Context, link, cadNum string) (*domain.Building, error)
	findByID       func(ctx context.Context, id string) (*domain.Building, error)
	list           func(ctx context.Context) ([]*domain.Building, error)
}

func (f *fakeBuildingsUC) Execute(ctx context.Context, link, address string) (*domain.Building, []*domain.Organization, error) {
	return f.execute(ctx, link, address)
}

func (f *fakeBuildingsUC) AssignCadastre(ctx context.Context, link, cadNum string) (*domain.Building, error) {
	return f.assignCadastre(ctx, link, cadNum)
}

func (f *fakeBuildingsUC) ListBuildings(ctx context.Context) ([]*domain.Building, error) {
	return f.list(ctx)
}

func (f *fakeBuildingsUC) FindBuildingByID(ctx context.Context, id string) (*domain.Building, error) {
	return f.findByID(ctx, id)
}

type fakeOrgsUC struct {
	findByINNs func(ctx context.Context, inns []string) ([]*domain.Organization, error)
}

func (f *fakeOrgsUC) Execute(context.Context, string, string) (*domain.Organization, error) {
	return nil, nil
}

func (f *fakeOrgsUC) SaveAll(context.Context, []*domain.Organization) error { return nil }

func (f *fakeOrgsUC) FindByINNs(ctx context.Context, inns []string) ([]*domain.Organization, error) {
	return f.findByINNs(ctx, inns)
}

type fakeRoomsUC struct {
	status domain.CollectionStatus
	rooms  []*domain.Room

	pauseErr  error
	resumeErr error
	cancelErr error

	executed chan struct{}
}

func (f *fakeRoomsUC) Execute(context.Context, *domain.Building, bool) ([]*domain.Room, error) {
	if f.executed != nil {
		close(f.executed)
	}
	return f.rooms, nil
}

func (f *fakeRoomsUC) Pause() error                    { return f.pauseErr }
func (f *fakeRoomsUC) Resume() error                   { return f.resumeErr }
func (f *fakeRoomsUC) Cancel() error                   { return f.cancelErr }
func (f *fakeRoomsUC) Status() domain.CollectionStatus { return f.status }

func (f *fakeRoomsUC) RoomsByBuildingID(context.Context, string) ([]*domain.Room, error) {
	return f.rooms, nil
}

type fakeDocsUC struct {
	path string
	err  error
}

func (f *fakeDocsUC) Execute(context.Context, string, string) (string, error) {
	return f.path, f.err
}

func storedBuilding() *domain.Building {
	return &domain.Building{
		ID:                 "780600020071234",
		Address:            "г. Санкт-Петербург, ул. Мира, д. 5",
		ManagementINN:      "7801010101",
		ResourceSupplyINNs: "7802020202",
		CardLink:           domain.BuildCardLink("guid"),
	}
}

func newTestRouter(buildings *fakeBuildingsUC, orgs *fakeOrgsUC, rooms *fakeRoomsUC, docs *fakeDocsUC) http.Handler {
	if buildings == nil {
		buildings = &fakeBuildingsUC{}
	}
	if orgs == nil {
		orgs = &fakeOrgsUC{}
	}
	if rooms == nil {
		rooms = &fakeRoomsUC{status: domain.CollectionStatus{State: domain.CollectionIdle}}
	}
	if docs == nil {
		docs = &fakeDocsUC{}
	}
	handlers := NewRegistryHandlers(buildings, orgs, rooms, docs)
	server := NewServer("0", handlers, logger_adapter.NewNopAdapter())
	return server.httpServer.Handler
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestResolveBuildingHandler(t *testing.T) {
	buildings := &fakeBuildingsUC{
		execute: func(_ context.Context, link, _ string) (*domain.Building, []*domain.Organization, error) {
			assert.Equal(t, domain.BuildCardLink("guid"), link)
			return storedBuilding(), []*domain.Organization{{INN: "7801010101", Role: domain.RoleManagement}}, nil
		},
	}
	router := newTestRouter(buildings, nil, nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/resolve",
		`{"link": "`+domain.BuildCardLink("guid")+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ResolveBuildingResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "780600020071234", resp.Building.ID)
	require.Len(t, resp.Organizations, 1)
	assert.Equal(t, domain.RoleManagement, resp.Organizations[0].Role)
}

func TestResolveBuildingHandlerRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(nil, nil, nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/resolve", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/buildings/resolve", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveBuildingHandlerIdentityMissing(t *testing.T) {
	buildings := &fakeBuildingsUC{
		execute: func(context.Context, string, string) (*domain.Building, []*domain.Organization, error) {
			b := storedBuilding()
			b.ID = ""
			return b, nil, &domain.IdentityMissingError{Entity: "МКД", Link: b.CardLink}
		},
	}
	router := newTestRouter(buildings, nil, nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/resolve",
		`{"address": "Санкт-Петербург, Мира 5"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
	assert.Contains(t, resp, "building")
}

func TestResolveBuildingHandlerUpstreamError(t *testing.T) {
	buildings := &fakeBuildingsUC{
		execute: func(context.Context, string, string) (*domain.Building, []*domain.Organization, error) {
			return nil, nil, &domain.UpstreamError{Service: "gis-gkh", StatusCode: 503}
		},
	}
	router := newTestRouter(buildings, nil, nil, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/resolve",
		`{"address": "Санкт-Петербург, Мира 5"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAssignCadastreHandlerValidation(t *testing.T) {
	router := newTestRouter(nil, nil, nil, nil)

	// Кадастровый номер с буквами не проходит схему
	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/cadastre",
		`{"link": "https://dom.gosuslugi.ru/#!/house-view?guid=g", "cadastre_number": "abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBuildingHandlerNotFound(t *testing.T) {
	buildings := &fakeBuildingsUC{
		findByID: func(context.Context, string) (*domain.Building, error) {
			return nil, domain.ErrNotFound
		},
	}
	router := newTestRouter(buildings, nil, nil, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/buildings/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectRoomsHandlerAccepted(t *testing.T) {
	buildings := &fakeBuildingsUC{
		findByID: func(context.Context, string) (*domain.Building, error) {
			return storedBuilding(), nil
		},
	}
	rooms := &fakeRoomsUC{
		status:   domain.CollectionStatus{State: domain.CollectionIdle},
		executed: make(chan struct{}),
	}
	router := newTestRouter(buildings, nil, rooms, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/780600020071234/rooms/collect",
		`{"recollect": false}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	select {
	case <-rooms.executed:
	case <-time.After(time.Second):
		t.Fatal("collection was not started in background")
	}
}

func TestCollectRoomsHandlerBusy(t *testing.T) {
	buildings := &fakeBuildingsUC{
		findByID: func(context.Context, string) (*domain.Building, error) {
			return storedBuilding(), nil
		},
	}
	rooms := &fakeRoomsUC{status: domain.CollectionStatus{State: domain.CollectionRunning}}
	router := newTestRouter(buildings, nil, rooms, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/780600020071234/rooms/collect",
		`{"recollect": false}`)
	assert.Equal(t, http.StatusLocked, rec.Code)
}

func TestCollectionControlsHandler(t *testing.T) {
	rooms := &fakeRoomsUC{pauseErr: domain.ErrNoActiveCollection}
	router := newTestRouter(nil, nil, rooms, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/collections/pause", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/collections/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status domain.CollectionStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, domain.CollectionIdle, status.State)
}

func TestBuildingRoomsHandlerSummary(t *testing.T) {
	buildings := &fakeBuildingsUC{
		findByID: func(context.Context, string) (*domain.Building, error) {
			return storedBuilding(), nil
		},
	}
	rooms := &fakeRoomsUC{
		status: domain.CollectionStatus{State: domain.CollectionIdle},
		rooms: []*domain.Room{
			{Number: "1", Status: domain.RoomResidential, TotalArea: "54.2", FromRosreestr: "Да"},
			{Number: "2-Н", Status: domain.RoomNonResidential, TotalArea: "120"},
		},
	}
	router := newTestRouter(buildings, nil, rooms, nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/buildings/780600020071234/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RoomsResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Rooms, 2)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.ByStatus[domain.RoomResidential].RosreestrCount)
}

func TestCaptureDocumentHandler(t *testing.T) {
	docs := &fakeDocsUC{path: "/captures/passport.pdf"}
	router := newTestRouter(nil, nil, nil, docs)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/buildings/780600020071234/documents",
		`{"kind": "passport"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/captures/passport.pdf", resp["path"])

	// Неизвестный вид документа отклоняется еще на валидации
	rec = doRequest(t, router, http.MethodPost, "/api/v1/buildings/780600020071234/documents",
		`{"kind": "report"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
