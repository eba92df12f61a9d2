package usecase

import (
	"context"
	"fmt"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

// CaptureDocumentUseCase инкапсулирует получение документа дома
// через внешний сервис снятия
type CaptureDocumentUseCase struct {
	buildings BuildingFinder
	capture   port.DocumentCapturePort
	logger    port.LoggerPort
}

// BuildingFinder - минимальная зависимость для поиска дома по ключу
type BuildingFinder interface {
	FindBuildingByID(ctx context.Context, id string) (*domain.Building, error)
}

// NewCaptureDocumentUseCase создает новый экземпляр use case
func NewCaptureDocumentUseCase(
	buildings BuildingFinder,
	capture port.DocumentCapturePort,
	logger port.LoggerPort,
) *CaptureDocumentUseCase {
	return &CaptureDocumentUseCase{
		buildings: buildings,
		capture:   capture,
		logger:    logger,
	}
}

// Execute возвращает путь к снятому документу.
// Паспорт снимается со страницы эл.паспорта, сведения об управлении -
// со страницы организаций дома
func (uc *CaptureDocumentUseCase) Execute(ctx context.Context, kind, buildingID string) (string, error) {
	building, err := uc.buildings.FindBuildingByID(ctx, buildingID)
	if err != nil {
		return "", err
	}

	var link string
	switch kind {
	case port.DocumentPassport:
		link = building.PassportLink
	case port.DocumentControlInfo:
		link = building.OrgsLink
	default:
		return "", fmt.Errorf("unknown document kind %q", kind)
	}
	if link == "" || link == domain.ErrorValue {
		return "", fmt.Errorf("building %s has no portal link for %s", buildingID, kind)
	}

	path, err := uc.capture.Capture(ctx, kind, link, building.Address)
	if err != nil {
		return "", fmt.Errorf("failed to capture %s for building %s: %w", kind, buildingID, err)
	}

	uc.logger.Info("document captured", port.Fields{"kind": kind, "building_id": buildingID, "path": path})
	return path, nil
}
