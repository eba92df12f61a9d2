package port

import "context"

// Виды документов, которые умеет снимать внешний сервис
const (
	DocumentPassport    = "passport"
	DocumentControlInfo = "control_info"
)

// DocumentCapturePort - внешний сервис снятия документов с портала.
// Потребляется, не реализуется этим ядром: принимает ссылку и адрес,
// возвращает путь к готовому файлу
type DocumentCapturePort interface {
	Capture(ctx context.Context, kind, portalLink, address string) (path string, err error)
}
