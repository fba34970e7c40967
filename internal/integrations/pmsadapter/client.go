package pmsadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент PMS-адаптера. Адаптер скрывает протокол конкретной PMS.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PMS-адаптера
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// PushRestrictions отправляет записи ограничений отеля в PMS
func (c *Client) PushRestrictions(ctx context.Context, hotelID string, records []RestrictionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	endpoint := fmt.Sprintf("%s/internal/hotels/%s/restrictions/push", c.baseURL, url.PathEscape(hotelID))

	body, err := json.Marshal(PushRequest{Records: records})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	var resp PushResponse
	if err := c.do(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return 0, err
	}

	c.log.Info("PushRestrictions: hotel=%s sent=%d accepted=%d", hotelID, len(records), resp.Accepted)
	return resp.Accepted, nil
}

// PullRestrictions запрашивает ограничения отеля из PMS за период
func (c *Client) PullRestrictions(ctx context.Context, hotelID string, from, to time.Time) ([]PulledRestriction, error) {
	query := url.Values{}
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))

	endpoint := fmt.Sprintf("%s/internal/hotels/%s/restrictions?%s", c.baseURL, url.PathEscape(hotelID), query.Encode())

	var resp PullResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Restrictions, nil
}

// ListRatePlanMappings получает тарифы отеля, которые продаются через PMS
func (c *Client) ListRatePlanMappings(ctx context.Context, hotelID string) ([]RatePlanMapping, error) {
	endpoint := fmt.Sprintf("%s/internal/hotels/%s/rate-plan-mappings", c.baseURL, url.PathEscape(hotelID))

	var resp MappingsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Mappings, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	c.log.Debug("PmsAdapter: %s %s", method, endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound, http.StatusConflict:
		return ErrHotelNotConnected
	default:
		var errResp ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
