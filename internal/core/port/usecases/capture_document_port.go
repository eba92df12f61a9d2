package usecases

import "context"

// CaptureDocumentUseCase - получение документа (паспорт дома / сведения об
// управлении) через внешний сервис снятия, с переиспользованием готовых файлов
type CaptureDocumentUseCase interface {
	Execute(ctx context.Context, kind, buildingID string) (path string, err error)
}
