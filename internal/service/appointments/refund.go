package appointments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// refundPercentage возвращает процент возврата по строгой временной шкале:
// строго больше 48 часов до начала 100%, строго больше 24 часов 50%,
// ровно 24 часа и меньше 0%
// Границы строгие: ровно 48 часов до начала дает 50%
func refundPercentage(now, startAt time.Time) int {
	until := startAt.Sub(now)

	switch {
	case until > domain.FullRefundCutoffHours*time.Hour:
		return 100
	case until > domain.HalfRefundCutoffHours*time.Hour:
		return 50
	default:
		return 0
	}
}

// refundAmount вычисляет сумму возврата от оплаченной суммы
// Вся денежная арифметика в decimal, без плавающей точки
func refundAmount(paid decimal.Decimal, percentage int) decimal.Decimal {
	if percentage == 0 || paid.IsZero() {
		return decimal.Zero
	}
	return paid.
		Mul(decimal.NewFromInt(int64(percentage))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}
