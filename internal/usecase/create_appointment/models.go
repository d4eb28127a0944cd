package create_appointment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID int64     // ID клиента
	ServiceID  int64     // ID услуги
	StartAt    time.Time // Время начала записи
	Notes      *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID           int64     // ID созданной записи
	CustomerID   int64     // ID клиента
	ServiceID    int64     // ID услуги
	StartAt      time.Time // Время начала
	EndAt        time.Time // Время окончания (вычисляется из длительности услуги)
	Status       string    // Статус записи
	PaymentState string    // Состояние оплаты

	// Денормализованные данные услуги на момент бронирования
	ServiceName  string          // Название услуги
	ServicePrice decimal.Decimal // Цена услуги
	Notes        *string         // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
