package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/firs-iln/gkh-bot/internal/contextkeys"
	"github.com/firs-iln/gkh-bot/internal/contracts"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
	"github.com/firs-iln/gkh-bot/internal/core/port/usecases"
)

type RegistryHandlers struct {
	buildingsUC usecases.ResolveBuildingUseCase
	orgsUC      usecases.ResolveOrganizationUseCase
	roomsUC     usecases.CollectRoomsUseCase
	documentsUC usecases.CaptureDocumentUseCase
}

// NewRegistryHandlers - конструктор для наших обработчиков
func NewRegistryHandlers(
	buildingsUC usecases.ResolveBuildingUseCase,
	orgsUC usecases.ResolveOrganizationUseCase,
	roomsUC usecases.CollectRoomsUseCase,
	documentsUC usecases.CaptureDocumentUseCase,
) *RegistryHandlers {
	return &RegistryHandlers{
		buildingsUC: buildingsUC,
		orgsUC:      orgsUC,
		roomsUC:     roomsUC,
		documentsUC: documentsUC,
	}
}

// readValidatedBody читает тело запроса и проверяет его по именованной схеме
func readValidatedBody(w http.ResponseWriter, r *http.Request, schema string, dst interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}
	if len(body) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
		return false
	}
	if err := contracts.ValidateRequest(schema, body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

// HandleResolveBuilding - обработчик для POST /api/v1/buildings/resolve
func (h *RegistryHandlers) HandleResolveBuilding(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleResolveBuilding"})

	var reqDTO ResolveBuildingRequestDTO
	if !readValidatedBody(w, r, contracts.ResolveBuildingRequest, &reqDTO) {
		return
	}

	logger.Info("Received request to resolve building", port.Fields{"link": reqDTO.Link, "address": reqDTO.Address})

	building, orgs, err := h.buildingsUC.Execute(r.Context(), reqDTO.Link, reqDTO.Address)
	if err != nil {
		// Дом без кадастрового номера сохранен, но требует ручного ввода ключа
		if domain.IsIdentityMissing(err) && building != nil {
			RespondWithJSON(w, http.StatusConflict, map[string]interface{}{
				"error":    err.Error(),
				"building": toBuildingDTO(building),
			})
			return
		}
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, statusFromError(err), "Failed to resolve building")
		return
	}

	RespondWithJSON(w, http.StatusOK, ResolveBuildingResponseDTO{
		Building:      toBuildingDTO(building),
		Organizations: toOrganizationDTOs(orgs),
	})
}

// HandleAssignCadastre - обработчик для POST /api/v1/buildings/cadastre
func (h *RegistryHandlers) HandleAssignCadastre(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleAssignCadastre"})

	var reqDTO AssignCadastreRequestDTO
	if !readValidatedBody(w, r, contracts.AssignCadastreRequest, &reqDTO) {
		return
	}

	logger.Info("Received request to assign cadastre number", port.Fields{"link": reqDTO.Link})

	building, err := h.buildingsUC.AssignCadastre(r.Context(), reqDTO.Link, reqDTO.CadastreNumber)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, statusFromError(err), "Failed to assign cadastre number")
		return
	}

	RespondWithJSON(w, http.StatusOK, toBuildingDTO(building))
}

// HandleListBuildings - обработчик для GET /api/v1/buildings
func (h *RegistryHandlers) HandleListBuildings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleListBuildings"})

	buildings, err := h.buildingsUC.ListBuildings(r.Context())
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, statusFromError(err), "Failed to list buildings")
		return
	}

	out := make([]BuildingDTO, 0, len(buildings))
	for _, building := range buildings {
		out = append(out, toBuildingDTO(building))
	}
	RespondWithJSON(w, http.StatusOK, out)
}

// HandleGetBuilding - обработчик для GET /api/v1/buildings/{buildingID}
func (h *RegistryHandlers) HandleGetBuilding(w http.ResponseWriter, r *http.Request) {
	buildingID := chi.URLParam(r, "buildingID")

	building, err := h.buildingsUC.FindBuildingByID(r.Context(), buildingID)
	if err != nil {
		WriteJSONError(w, statusFromError(err), fmt.Sprintf("Building %q not found", buildingID))
		return
	}
	RespondWithJSON(w, http.StatusOK, toBuildingDTO(building))
}

// HandleBuildingOrganizations - обработчик для GET /api/v1/buildings/{buildingID}/organizations
func (h *RegistryHandlers) HandleBuildingOrganizations(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleBuildingOrganizations"})
	buildingID := chi.URLParam(r, "buildingID")

	building, err := h.buildingsUC.FindBuildingByID(r.Context(), buildingID)
	if err != nil {
		WriteJSONError(w, statusFromError(err), fmt.Sprintf("Building %q not found", buildingID))
		return
	}

	inns := append([]string{building.ManagementINN}, strings.Split(building.ResourceSupplyINNs, ";")...)
	orgs, err := h.orgsUC.FindByINNs(r.Context(), inns)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, statusFromError(err), "Failed to look up organizations")
		return
	}
	RespondWithJSON(w, http.StatusOK, toOrganizationDTOs(orgs))
}

// HandleBuildingRooms - обработчик для GET /api/v1/buildings/{buildingID}/rooms.
// Вместе с помещениями возвращается сводка по статусам и признаку Росреестра
func (h *RegistryHandlers) HandleBuildingRooms(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleBuildingRooms"})
	buildingID := chi.URLParam(r, "buildingID")

	if _, err := h.buildingsUC.FindBuildingByID(r.Context(), buildingID); err != nil {
		WriteJSONError(w, statusFromError(err), fmt.Sprintf("Building %q not found", buildingID))
		return
	}

	rooms, err := h.roomsUC.RoomsByBuildingID(r.Context(), buildingID)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, statusFromError(err), "Failed to look up rooms")
		return
	}

	RespondWithJSON(w, http.StatusOK, RoomsResponseDTO{
		Rooms:   toRoomDTOs(rooms),
		Summary: domain.SummarizeRooms(rooms),
	})
}

// HandleCollectRooms - обработчик для POST /api/v1/buildings/{buildingID}/rooms/collect.
// Сбор долгий, поэтому запускается в фоне, а клиент сразу получает 202
func (h *RegistryHandlers) HandleCollectRooms(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleCollectRooms"})
	buildingID := chi.URLParam(r, "buildingID")

	var reqDTO CollectRoomsRequestDTO
	if !readValidatedBody(w, r, contracts.CollectRoomsRequest, &reqDTO) {
		return
	}

	building, err := h.buildingsUC.FindBuildingByID(r.Context(), buildingID)
	if err != nil {
		WriteJSONError(w, statusFromError(err), fmt.Sprintf("Building %q not found", buildingID))
		return
	}

	if state := h.roomsUC.Status().State; state == domain.CollectionRunning || state == domain.CollectionPaused {
		WriteJSONError(w, statusFromError(domain.ErrCollectionRunning), domain.ErrCollectionRunning.Error())
		return
	}

	logger.Info("Received request to collect rooms", port.Fields{"building_id": buildingID, "recollect": reqDTO.Recollect})

	// Контекст запроса обрывается вместе с соединением, фоновый сбор живет дольше
	bgCtx := context.WithoutCancel(r.Context())
	go func() {
		if _, err := h.roomsUC.Execute(bgCtx, building, reqDTO.Recollect); err != nil {
			logger.Error("Room collection failed", err, port.Fields{"building_id": buildingID})
		}
	}()

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"building_id": buildingID, "state": string(domain.CollectionRunning)})
}

// HandlePauseCollection - обработчик для POST /api/v1/collections/pause
func (h *RegistryHandlers) HandlePauseCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.roomsUC.Pause(); err != nil {
		WriteJSONError(w, statusFromError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, h.roomsUC.Status())
}

// HandleResumeCollection - обработчик для POST /api/v1/collections/resume
func (h *RegistryHandlers) HandleResumeCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.roomsUC.Resume(); err != nil {
		WriteJSONError(w, statusFromError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, h.roomsUC.Status())
}

// HandleCancelCollection - обработчик для POST /api/v1/collections/cancel
func (h *RegistryHandlers) HandleCancelCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.roomsUC.Cancel(); err != nil {
		WriteJSONError(w, statusFromError(err), err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, h.roomsUC.Status())
}

// HandleCollectionStatus - обработчик для GET /api/v1/collections/status
func (h *RegistryHandlers) HandleCollectionStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.roomsUC.Status())
}

// HandleCaptureDocument - обработчик для POST /api/v1/buildings/{buildingID}/documents
func (h *RegistryHandlers) HandleCaptureDocument(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleCaptureDocument"})
	buildingID := chi.URLParam(r, "buildingID")

	var reqDTO CaptureDocumentRequestDTO
	if !readValidatedBody(w, r, contracts.CaptureDocumentRequest, &reqDTO) {
		return
	}

	logger.Info("Received request to capture document", port.Fields{"building_id": buildingID, "kind": reqDTO.Kind})

	path, err := h.documentsUC.Execute(r.Context(), reqDTO.Kind, buildingID)
	if err != nil {
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, statusFromError(err), "Failed to capture document")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{"path": path})
}
