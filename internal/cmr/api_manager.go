package cmr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stroyka/internal/order/model"
)

const (
	orderByRegURL          = "%v/rest/api/v1/order/reg/%v"
	equipmentOrderByRegURL = "%v/rest/api/v1/order/special-machinery/reg/%v"
	ordersURL              = "%v/rest/api/v1/order"

	RequestIDHeader = "X-Request-Id"
)

// StatusError reports a non-2xx answer from the upstream. Status is the reason phrase the server sent.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, status)
}

// APIManager reads orders from the CMR backend. Timeouts come from the caller's context.
type APIManager struct {
	client *http.Client
	host   string
	logger *zap.SugaredLogger
}

func NewAPIManager(client *http.Client, host string, logger *zap.SugaredLogger) *APIManager {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIManager{client: client, host: host, logger: logger}
}

func (m *APIManager) GetOrderByRegNumber(ctx context.Context, regNumber string) (*model.Order, error) {
	var order model.Order
	if err := m.get(ctx, fmt.Sprintf(orderByRegURL, m.host, url.PathEscape(regNumber)), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *APIManager) GetEquipmentOrderByRegNumber(ctx context.Context, regNumber string) (*model.EquipmentOrder, error) {
	var order model.EquipmentOrder
	if err := m.get(ctx, fmt.Sprintf(equipmentOrderByRegURL, m.host, url.PathEscape(regNumber)), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (m *APIManager) GetOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := m.get(ctx, fmt.Sprintf(ordersURL, m.host), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (m *APIManager) get(ctx context.Context, reqURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID(ctx))

	r, err := m.client.Do(req)
	if err != nil {
		m.logger.Errorf("get %v failed: %v", reqURL, err)
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer r.Body.Close()

	if r.StatusCode < 200 || r.StatusCode > 299 {
		// дочитываем тело, чтобы соединение вернулось в пул
		io.Copy(io.Discard, r.Body)
		m.logger.Warnf("get %v: upstream returned status %d", reqURL, r.StatusCode)
		return &StatusError{Code: r.StatusCode, Status: strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode)+" ")}
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		m.logger.Errorf("decode %v failed: %v", reqURL, err)
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
