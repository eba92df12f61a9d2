package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger_adapter "github.com/firs-iln/gkh-bot/internal/adapters/logger"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

type fakeBuildingFinder struct {
	building *domain.Building
	err      error
}

func (f *fakeBuildingFinder) FindBuildingByID(_ context.Context, _ string) (*domain.Building, error) {
	return f.building, f.err
}

type fakeCapture struct {
	kind    string
	link    string
	address string
	path    string
	err     error
}

func (f *fakeCapture) Capture(_ context.Context, kind, portalLink, address string) (string, error) {
	f.kind = kind
	f.link = portalLink
	f.address = address
	return f.path, f.err
}

func TestCaptureDocumentPassport(t *testing.T) {
	finder := &fakeBuildingFinder{building: &domain.Building{
		ID:           "780600020071234",
		Address:      "г. Санкт-Петербург, ул. Мира, д. 5",
		PassportLink: domain.BuildPassportLink(testHouseGUID),
		OrgsLink:     domain.BuildOrgsLink("addr-guid", testHouseGUID, "root-guid"),
	}}
	capture := &fakeCapture{path: "/captures/passport-780600020071234.pdf"}
	uc := NewCaptureDocumentUseCase(finder, capture, logger_adapter.NewNopAdapter())

	path, err := uc.Execute(context.Background(), port.DocumentPassport, "780600020071234")
	require.NoError(t, err)

	assert.Equal(t, "/captures/passport-780600020071234.pdf", path)
	assert.Equal(t, port.DocumentPassport, capture.kind)
	assert.Equal(t, finder.building.PassportLink, capture.link)
	assert.Equal(t, finder.building.Address, capture.address)
}

func TestCaptureDocumentControlInfoUsesOrgsLink(t *testing.T) {
	finder := &fakeBuildingFinder{building: &domain.Building{
		ID:       "780600020071234",
		OrgsLink: domain.BuildOrgsLink("addr-guid", testHouseGUID, "root-guid"),
	}}
	capture := &fakeCapture{path: "/captures/control.pdf"}
	uc := NewCaptureDocumentUseCase(finder, capture, logger_adapter.NewNopAdapter())

	_, err := uc.Execute(context.Background(), port.DocumentControlInfo, "780600020071234")
	require.NoError(t, err)
	assert.Equal(t, finder.building.OrgsLink, capture.link)
}

func TestCaptureDocumentRejectsUnknownKind(t *testing.T) {
	finder := &fakeBuildingFinder{building: &domain.Building{ID: "780600020071234"}}
	uc := NewCaptureDocumentUseCase(finder, &fakeCapture{}, logger_adapter.NewNopAdapter())

	_, err := uc.Execute(context.Background(), "report", "780600020071234")
	assert.ErrorContains(t, err, "unknown document kind")
}

func TestCaptureDocumentRejectsSentinelLink(t *testing.T) {
	finder := &fakeBuildingFinder{building: &domain.Building{
		ID:           "780600020071234",
		PassportLink: domain.ErrorValue,
	}}
	uc := NewCaptureDocumentUseCase(finder, &fakeCapture{}, logger_adapter.NewNopAdapter())

	_, err := uc.Execute(context.Background(), port.DocumentPassport, "780600020071234")
	assert.ErrorContains(t, err, "no portal link")
}

func TestCaptureDocumentUnknownBuilding(t *testing.T) {
	finder := &fakeBuildingFinder{err: domain.ErrNotFound}
	uc := NewCaptureDocumentUseCase(finder, &fakeCapture{}, logger_adapter.NewNopAdapter())

	_, err := uc.Execute(context.Background(), port.DocumentPassport, "нет")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
