package port

// Fields - произвольные структурированные поля лога
type Fields map[string]interface{}

// LoggerPort - абстракция логгера, не зависящая от конкретной библиотеки.
// Адаптеры: slog (+tint), fluent-bit, композитный мультилоггер.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// WithFields возвращает новый логгер с добавленным постоянным контекстом
	WithFields(fields Fields) LoggerPort
}
