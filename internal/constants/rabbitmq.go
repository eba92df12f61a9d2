package constants

// Обменник и ключи маршрутизации событий сбора
const (
	EventsExchange = "gkh_events_exchange"

	RoutingKeyCollectionEvents = "rooms.collection.events"
)
