package port

import (
	"context"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// EnrichmentPort - сервис нормализации адресов и сведений о юрлицах.
// Каждый метод кэшируется реализацией на ограниченное время,
// чтобы повторы не расходовали квоту внешнего сервиса
type EnrichmentPort interface {
	// ResolveAddress чистит произвольную строку адреса
	ResolveAddress(ctx context.Context, address string) (*domain.AddressRecord, error)

	// ResolveAddressByCadastre ищет адрес по кадастровому номеру.
	// Возвращает nil без ошибки, если номер не найден
	ResolveAddressByCadastre(ctx context.Context, cadNum string) (*domain.AddressRecord, error)

	// ResolveOrganization ищет юрлицо по ИНН.
	// Возвращает nil без ошибки, если ИНН не найден
	ResolveOrganization(ctx context.Context, inn string) (*domain.PartyRecord, error)
}
