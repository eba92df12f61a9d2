package domain

import (
	"errors"
	"fmt"
)

// UpstreamError - портал или сервис нормализации недоступен либо ответил не-2xx.
// Вызывающий код понижает такую ошибку до сентинелов в полях записи
// и прерывает обработку только там, где без ответа нельзя определить идентичность
type UpstreamError struct {
	Service    string // "gis-gkh" / "dadata" / "doc-capture"
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: upstream request failed: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstreamError сообщает, вызвана ли ошибка внешним сервисом
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IdentityMissingError - у дома или помещения нет пригодного ключа идентичности.
// Требует ручного ввода кадастрового номера оператором, по умолчанию не подставляется
type IdentityMissingError struct {
	Entity string
	Link   string
}

func (e *IdentityMissingError) Error() string {
	return fmt.Sprintf("%s %q has no cadastre number: identity key must be entered manually", e.Entity, e.Link)
}

// IsIdentityMissing сообщает, требуется ли ручное разрешение идентичности
func IsIdentityMissing(err error) bool {
	var ie *IdentityMissingError
	return errors.As(err, &ie)
}

var (
	// ErrCollectionRunning - сбор помещений уже идет (общесистемный, не по-домовой)
	ErrCollectionRunning = errors.New("room collection is already running")

	// ErrNoActiveCollection - для pause/resume/cancel нет активного сбора
	ErrNoActiveCollection = errors.New("no active room collection")

	// ErrCollectionCancelled - сбор прерван оператором, собранные строки удалены
	ErrCollectionCancelled = errors.New("room collection cancelled")

	// ErrNotFound - запись не найдена в табличном хранилище
	ErrNotFound = errors.New("record not found")
)
