package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

// ResolveOrganizationUseCase инкапсулирует получение организации по guid
// портала: чтение из таблицы, запрос карточки, обогащение по ИНН и
// дедупликацию при сохранении
type ResolveOrganizationUseCase struct {
	fetcher  port.GisGkhFetcherPort
	enricher port.EnrichmentPort
	store    port.TableStorePort
	logger   port.LoggerPort
	cooldown time.Duration
}

// NewResolveOrganizationUseCase создает новый экземпляр use case.
// cooldown - пауза после каждого сетевого запроса организации
func NewResolveOrganizationUseCase(
	fetcher port.GisGkhFetcherPort,
	enricher port.EnrichmentPort,
	store port.TableStorePort,
	logger port.LoggerPort,
	cooldown time.Duration,
) *ResolveOrganizationUseCase {
	return &ResolveOrganizationUseCase{
		fetcher:  fetcher,
		enricher: enricher,
		store:    store,
		logger:   logger,
		cooldown: cooldown,
	}
}

// Execute возвращает организацию с указанной ролью.
// Сохраненная ранее организация возвращается без обращений к порталу
func (uc *ResolveOrganizationUseCase) Execute(ctx context.Context, role, orgGUID string) (*domain.Organization, error) {
	link := domain.BuildOrganizationLink(orgGUID)

	row, ok, err := uc.store.Find(ctx, port.TableOrganizations, link)
	if err != nil {
		return nil, fmt.Errorf("failed to look up organization by link: %w", err)
	}
	if ok {
		cells, err := uc.store.ReadRow(ctx, port.TableOrganizations, row)
		if err != nil {
			return nil, fmt.Errorf("failed to read organization row: %w", err)
		}
		org := domain.OrganizationFromRow(cells)
		uc.logger.Debug("organization served from store", port.Fields{"inn": org.INN, "link": link})
		return org, nil
	}

	org, err := uc.fetcher.FetchOrganization(ctx, orgGUID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization %s: %w", orgGUID, err)
	}
	org.Role = role
	org.Link = link
	uc.enrich(ctx, org)

	// Портал банит частые обращения, выдерживаем паузу после каждой организации
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(uc.cooldown):
	}

	uc.logger.Info("organization resolved", port.Fields{"inn": org.INN, "role": role})
	return org, nil
}

// enrich заполняет поля организации по данным сервиса нормализации.
// Сбой обогащения не прерывает обработку: в поля пишется сентинел
func (uc *ResolveOrganizationUseCase) enrich(ctx context.Context, org *domain.Organization) {
	org.DadataLink = domain.BuildDadataPartyLink(org.INN)

	party, err := uc.enricher.ResolveOrganization(ctx, org.INN)
	if err != nil {
		uc.logger.Warn("organization enrichment failed", port.Fields{"inn": org.INN, "error": err.Error()})
		org.State = domain.ErrorValue
		org.ShortName = domain.ErrorValue
		org.DadataOGRN = domain.ErrorValue
		org.EIOName = domain.ErrorValue
		org.EIOPosition = domain.ErrorValue
		org.DadataEmail = domain.ErrorValue
		return
	}
	if party == nil {
		return
	}

	if label, ok := domain.OrgStateLabels[party.State]; ok {
		org.State = label
	} else {
		org.State = party.State
	}
	org.ShortName = party.ShortName
	org.DadataOGRN = party.OGRN
	org.EIOName = party.EIOName
	org.EIOPosition = party.EIOPosition
	if len(party.Emails) > 0 {
		org.DadataEmail = party.Emails[0]
	}
}

// SaveAll сохраняет организации с дедупликацией по ссылке organizationView.
// Изменившаяся запись удаляется и вставляется заново: позиционное хранилище
// не умеет обновлять строку на месте
func (uc *ResolveOrganizationUseCase) SaveAll(ctx context.Context, orgs []*domain.Organization) error {
	for _, org := range orgs {
		row, ok, err := uc.store.Find(ctx, port.TableOrganizations, org.Link)
		if err != nil {
			return fmt.Errorf("failed to look up organization %s: %w", org.INN, err)
		}
		if ok {
			cells, err := uc.store.ReadRow(ctx, port.TableOrganizations, row)
			if err != nil {
				return fmt.Errorf("failed to read organization row: %w", err)
			}
			if org.Equal(domain.OrganizationFromRow(cells)) {
				continue
			}
			if err := uc.store.DeleteRow(ctx, port.TableOrganizations, row); err != nil {
				return fmt.Errorf("failed to delete stale organization row: %w", err)
			}
		}
		if err := uc.store.AppendRow(ctx, port.TableOrganizations, org.RowValues()); err != nil {
			return fmt.Errorf("failed to append organization %s: %w", org.INN, err)
		}
	}
	return nil
}

// FindByINNs возвращает сохраненные организации по списку ИНН.
// Ненайденные ИНН пропускаются
func (uc *ResolveOrganizationUseCase) FindByINNs(ctx context.Context, inns []string) ([]*domain.Organization, error) {
	var orgs []*domain.Organization
	for _, inn := range inns {
		if inn == "" || inn == domain.ErrorValue {
			continue
		}
		row, ok, err := uc.store.Find(ctx, port.TableOrganizations, inn)
		if err != nil {
			return nil, fmt.Errorf("failed to look up organization by INN %s: %w", inn, err)
		}
		if !ok {
			continue
		}
		cells, err := uc.store.ReadRow(ctx, port.TableOrganizations, row)
		if err != nil {
			return nil, fmt.Errorf("failed to read organization row: %w", err)
		}
		orgs = append(orgs, domain.OrganizationFromRow(cells))
	}
	uc.logger.Debug("organizations looked up by INN", port.Fields{"found": len(orgs), "requested": len(inns)})
	return orgs, nil
}
