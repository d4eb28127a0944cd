package paymentservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetPaidAmount получает сумму оплаченных платежей по записи
// Отсутствие оплаченного платежа считается нормальной ситуацией (возврат не положен),
// она возвращается как ErrNoPaidPayment
func (c *Client) GetPaidAmount(ctx context.Context, appointmentID int64) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/internal/appointments/%d/payments/paid-total", c.baseURL, appointmentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return decimal.Zero, fmt.Errorf("%w: invalid appointment ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return decimal.Zero, ErrNoPaidPayment
	default:
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var paid PaidAmount
	if err := json.NewDecoder(resp.Body).Decode(&paid); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if paid.Amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative paid amount %s", ErrInvalidResponse, paid.Amount)
	}

	return paid.Amount, nil
}
