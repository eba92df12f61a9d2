package domain

// CollectionState - состояние процесса сбора помещений
type CollectionState string

const (
	CollectionIdle      CollectionState = "idle"
	CollectionRunning   CollectionState = "running"
	CollectionPaused    CollectionState = "paused"
	CollectionCancelled CollectionState = "cancelled"
	CollectionCompleted CollectionState = "completed"
)

// CollectionStatus - снимок состояния оркестратора для API статуса
type CollectionStatus struct {
	State      CollectionState `json:"state"`
	BuildingID string          `json:"building_id,omitempty"`
	Address    string          `json:"address,omitempty"`
	Collected  int             `json:"collected"`
	Resumed    int             `json:"resumed"`
	Total      int             `json:"total"`
}

// CollectionEvent - событие жизненного цикла сбора, публикуемое во внешнюю очередь
type CollectionEvent struct {
	Kind       string `json:"kind"` // collection.started / collection.completed / collection.cancelled
	BuildingID string `json:"building_id"`
	Address    string `json:"address"`
	Collected  int    `json:"collected"`
	Resumed    int    `json:"resumed"`
	Total      int    `json:"total"`
}

// RoomsSummary - агрегат по собранным помещениям дома:
// для каждого статуса отдельно считаются записи, подтвержденные Росреестром
type RoomsSummary struct {
	ByStatus map[string]RoomsGroupSummary `json:"by_status"`
	Total    int                          `json:"total"`
}

type RoomsGroupSummary struct {
	RosreestrCount int     `json:"rosreestr_count"`
	RosreestrArea  float64 `json:"rosreestr_area"`
	OtherCount     int     `json:"other_count"`
	OtherArea      float64 `json:"other_area"`
}

// SummarizeRooms группирует помещения по статусу и признаку Росреестра.
// Нечисловые площади (включая сентинелы ошибок) не попадают в суммы
func SummarizeRooms(rooms []*Room) RoomsSummary {
	summary := RoomsSummary{ByStatus: make(map[string]RoomsGroupSummary), Total: len(rooms)}
	for _, room := range rooms {
		group := summary.ByStatus[room.Status]
		area, err := ParseLocalizedFloat(room.TotalArea)
		if err != nil {
			area = 0
		}
		if room.FromRosreestr == "Да" || room.FromRosreestr == "да" {
			group.RosreestrCount++
			group.RosreestrArea += area
		} else {
			group.OtherCount++
			group.OtherArea += area
		}
		summary.ByStatus[room.Status] = group
	}
	return summary
}
