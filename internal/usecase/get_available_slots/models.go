package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Request модель запроса на получение меню слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
	PartySize int       // Размер группы; 0 - не задан
}

// Response модель ответа со слотами дня
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	ServiceID int64     // ID услуги
	Slots     []Slot    // Слоты меню дня недели в хронологическом порядке
}

// Slot модель слота
type Slot struct {
	StartTime types.TimeString // Время слота (например, "12:00")
	Committed int              // Гостей в активных бронированиях
	Capacity  int              // Вместимость слота
	Remaining int              // Свободных мест (0 для закрытого слота)
	Blocked   bool             // Слот закрыт администратором
	Full      bool             // Мест не осталось
	Fits      bool             // Группа PartySize помещается (без PartySize: есть хотя бы одно место)
}
