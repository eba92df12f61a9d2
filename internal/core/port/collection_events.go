package port

import (
	"context"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
)

// CollectionEventsPort - публикация событий жизненного цикла сбора помещений
// во внешнюю очередь, чтобы фронтенд мог уведомить оператора
type CollectionEventsPort interface {
	Publish(ctx context.Context, event domain.CollectionEvent) error
}
