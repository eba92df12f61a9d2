package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
	"github.com/firs-iln/gkh-bot/internal/core/port/usecases"
)

// ResolveBuildingUseCase инкапсулирует получение карточки дома:
// поиск в хранилище, запрос к порталу, разрешение организаций дома,
// обогащение адресными данными и сохранение результата
type ResolveBuildingUseCase struct {
	fetcher  port.GisGkhFetcherPort
	enricher port.EnrichmentPort
	store    port.TableStorePort
	orgs     usecases.ResolveOrganizationUseCase
	logger   port.LoggerPort
}

// NewResolveBuildingUseCase создает новый экземпляр use case
func NewResolveBuildingUseCase(
	fetcher port.GisGkhFetcherPort,
	enricher port.EnrichmentPort,
	store port.TableStorePort,
	orgs usecases.ResolveOrganizationUseCase,
	logger port.LoggerPort,
) *ResolveBuildingUseCase {
	return &ResolveBuildingUseCase{
		fetcher:  fetcher,
		enricher: enricher,
		store:    store,
		orgs:     orgs,
		logger:   logger,
	}
}

// Execute возвращает дом и связанные организации.
// Успешно сохраненный ранее дом возвращается без обращений к порталу;
// строка с пустым ключом идентичности (прошлый сбой) обрабатывается заново
func (uc *ResolveBuildingUseCase) Execute(ctx context.Context, link, address string) (*domain.Building, []*domain.Organization, error) {
	if link != "" {
		stored, err := uc.findByLink(ctx, link)
		if err != nil {
			return nil, nil, err
		}
		if stored != nil && stored.ID != "" && stored.ID != domain.ErrorValue {
			orgs, err := uc.orgs.FindByINNs(ctx, storedINNs(stored))
			if err != nil {
				return nil, nil, err
			}
			uc.logger.Info("building served from store", port.Fields{"building_id": stored.ID})
			return stored, orgs, nil
		}
	}

	building := &domain.Building{CardLink: link, Address: address}

	// Без ссылки дом ищется по адресу: нормализация адреса дает
	// кадастровый номер и регион для поиска на портале
	if building.CardLink == "" {
		if err := uc.findCardLinkByAddress(ctx, building); err != nil {
			if domain.IsUpstreamError(err) {
				return uc.saveErrorBuilding(ctx, building)
			}
			return nil, nil, err
		}
	}

	guid, err := domain.GUIDFromCardLink(building.CardLink)
	if err != nil {
		return nil, nil, err
	}

	card, err := uc.fetcher.FetchBuildingCard(ctx, guid)
	if err != nil {
		uc.logger.Error("failed to fetch building card", err, port.Fields{"guid": guid})
		if domain.IsUpstreamError(err) {
			return uc.saveErrorBuilding(ctx, building)
		}
		return nil, nil, err
	}

	orgs := uc.assemble(ctx, building, card)
	uc.enrichAddress(ctx, building)

	if err := uc.save(ctx, building); err != nil {
		return nil, nil, err
	}
	if err := uc.orgs.SaveAll(ctx, orgs); err != nil {
		return nil, nil, err
	}

	// Дом без кадастрового номера сохранен, но ключ идентичности
	// должен ввести оператор
	if building.ID == "" {
		return building, orgs, &domain.IdentityMissingError{Entity: "МКД", Link: building.CardLink}
	}

	uc.logger.Info("building resolved", port.Fields{"building_id": building.ID, "address": building.Address})
	return building, orgs, nil
}

// AssignCadastre дописывает кадастровый номер, введенный оператором,
// и переназначает ключ идентичности дома
func (uc *ResolveBuildingUseCase) AssignCadastre(ctx context.Context, link, cadNum string) (*domain.Building, error) {
	row, ok, err := uc.store.Find(ctx, port.TableBuildings, link)
	if err != nil {
		return nil, fmt.Errorf("failed to look up building by link: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("building %q: %w", link, domain.ErrNotFound)
	}
	cells, err := uc.store.ReadRow(ctx, port.TableBuildings, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read building row: %w", err)
	}

	building := domain.BuildingFromRow(cells)
	building.CadastreNumber = cadNum
	building.ID = domain.NormalizeCadastre(cadNum)
	uc.enrichAddress(ctx, building)

	if err := uc.store.DeleteRow(ctx, port.TableBuildings, row); err != nil {
		return nil, fmt.Errorf("failed to delete building row: %w", err)
	}
	if err := uc.store.AppendRow(ctx, port.TableBuildings, building.RowValues()); err != nil {
		return nil, fmt.Errorf("failed to append building row: %w", err)
	}

	uc.logger.Info("cadastre assigned", port.Fields{"building_id": building.ID, "link": link})
	return building, nil
}

// ListBuildings возвращает все сохраненные дома
func (uc *ResolveBuildingUseCase) ListBuildings(ctx context.Context) ([]*domain.Building, error) {
	rows, err := uc.store.Rows(ctx, port.TableBuildings)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	buildings := make([]*domain.Building, 0, len(rows))
	for _, row := range rows {
		buildings = append(buildings, domain.BuildingFromRow(row))
	}
	return buildings, nil
}

// FindBuildingByID возвращает дом по ключу идентичности
func (uc *ResolveBuildingUseCase) FindBuildingByID(ctx context.Context, id string) (*domain.Building, error) {
	row, ok, err := uc.store.Find(ctx, port.TableBuildings, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up building %q: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("building %q: %w", id, domain.ErrNotFound)
	}
	cells, err := uc.store.ReadRow(ctx, port.TableBuildings, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read building row: %w", err)
	}
	return domain.BuildingFromRow(cells), nil
}

func (uc *ResolveBuildingUseCase) findByLink(ctx context.Context, link string) (*domain.Building, error) {
	row, ok, err := uc.store.Find(ctx, port.TableBuildings, link)
	if err != nil {
		return nil, fmt.Errorf("failed to look up building by link: %w", err)
	}
	if !ok {
		return nil, nil
	}
	cells, err := uc.store.ReadRow(ctx, port.TableBuildings, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read building row: %w", err)
	}
	return domain.BuildingFromRow(cells), nil
}

// findCardLinkByAddress находит ссылку на карточку дома по адресу
func (uc *ResolveBuildingUseCase) findCardLinkByAddress(ctx context.Context, building *domain.Building) error {
	record, err := uc.enricher.ResolveAddress(ctx, building.Address)
	if err != nil {
		return err
	}
	if record == nil || record.HouseCadnum == "" {
		return &domain.IdentityMissingError{Entity: "МКД", Link: building.Address}
	}

	guid, err := uc.fetcher.SearchBuildingByCadastre(ctx, record.RegionFiasID, record.HouseCadnum)
	if err != nil {
		return err
	}
	building.CardLink = domain.BuildCardLink(guid)
	return nil
}

// assemble заполняет дом из карточки портала и разрешает организации.
// Недоступность отдельной организации не срывает обработку дома
func (uc *ResolveBuildingUseCase) assemble(ctx context.Context, building *domain.Building, card *domain.BuildingCard) []*domain.Organization {
	building.Address = card.FormattedAddress
	building.AddressID = card.AddressGUID
	building.ControlMethod = card.ManagementTypeName
	building.CadastreNumber = card.CadastreNumber
	building.ID = domain.NormalizeCadastre(card.CadastreNumber)
	building.TotalArea = card.TotalSquare
	building.ResidentialArea = card.ResidentialSquare
	building.BuiltYear = card.BuildingYear
	building.CardLink = domain.BuildCardLink(card.HouseGUID)
	building.OrgsLink = domain.BuildOrgsLink(card.AddressGUID, card.HouseGUID, card.ManagementOrgRootGUID)
	building.PassportLink = domain.BuildPassportLink(card.HouseGUID)

	var orgs []*domain.Organization

	if card.ManagementOrgGUID != "" {
		org, err := uc.orgs.Execute(ctx, domain.RoleManagement, card.ManagementOrgGUID)
		if err != nil {
			uc.logger.Error("failed to resolve management organization", err, port.Fields{"guid": card.ManagementOrgGUID})
			building.ManagementINN = domain.ErrorValue
		} else {
			building.ManagementINN = org.INN
			orgs = append(orgs, org)
		}
	}

	var supplyINNs []string
	for _, guid := range card.ResourceOrgGUIDs {
		org, err := uc.orgs.Execute(ctx, domain.RoleResourceSupply, guid)
		if err != nil {
			uc.logger.Error("failed to resolve resource supply organization", err, port.Fields{"guid": guid})
			supplyINNs = append(supplyINNs, domain.ErrorValue)
			continue
		}
		supplyINNs = append(supplyINNs, org.INN)
		orgs = append(orgs, org)
	}
	building.ResourceSupplyINNs = strings.Join(supplyINNs, ";")

	return orgs
}

// enrichAddress заполняет адресные поля по кадастровому номеру.
// Сбой или пустой ответ помечают блок обогащения сентинелом
func (uc *ResolveBuildingUseCase) enrichAddress(ctx context.Context, building *domain.Building) {
	record, err := uc.enricher.ResolveAddressByCadastre(ctx, building.CadastreNumber)
	if err != nil || record == nil {
		if err != nil {
			uc.logger.Warn("building enrichment failed", port.Fields{"cadastre_number": building.CadastreNumber, "error": err.Error()})
		}
		building.MarkEnrichmentError()
		return
	}

	building.RegionCode = record.RegionCode()
	building.PostalCode = record.PostalCode
	building.Settlement = record.CityWithType
	building.Street = record.StreetWithTyp
	building.HouseNumber = record.House
	building.EnrichedCadastre = record.HouseCadnum
	building.CoordsLink = record.MapsLink
}

// save дописывает дом в таблицу. Строка с пустым ключом идентичности
// (прошлый сбой той же ссылки) заменяется новой, успешная строка не трогается
func (uc *ResolveBuildingUseCase) save(ctx context.Context, building *domain.Building) error {
	row, ok, err := uc.store.Find(ctx, port.TableBuildings, building.CardLink)
	if err != nil {
		return fmt.Errorf("failed to look up building by link: %w", err)
	}
	if ok {
		cells, err := uc.store.ReadRow(ctx, port.TableBuildings, row)
		if err != nil {
			return fmt.Errorf("failed to read building row: %w", err)
		}
		if cells[0] != "" && cells[0] != domain.ErrorValue {
			return nil
		}
		if err := uc.store.DeleteRow(ctx, port.TableBuildings, row); err != nil {
			return fmt.Errorf("failed to delete stale building row: %w", err)
		}
	}
	if err := uc.store.AppendRow(ctx, port.TableBuildings, building.RowValues()); err != nil {
		return fmt.Errorf("failed to append building row: %w", err)
	}
	return nil
}

// saveErrorBuilding сохраняет строку с сентинелами вместо характеристик:
// оператор видит, какой дом не удалось обработать
func (uc *ResolveBuildingUseCase) saveErrorBuilding(ctx context.Context, building *domain.Building) (*domain.Building, []*domain.Organization, error) {
	link := building.CardLink
	building.MarkError()
	// Ссылка сохраняется: по ней строка найдется и заменится при повторной попытке
	if link != "" {
		building.CardLink = link
	}
	if err := uc.save(ctx, building); err != nil {
		return nil, nil, err
	}
	return building, nil, nil
}

func storedINNs(building *domain.Building) []string {
	inns := []string{building.ManagementINN}
	inns = append(inns, strings.Split(building.ResourceSupplyINNs, ";")...)
	return inns
}
