package equipment

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"stroyka/internal/order/model"
)

type Source interface {
	GetEquipmentOrderByRegNumber(ctx context.Context, regNumber string) (*model.EquipmentOrder, error)
}

type handler struct {
	orders  Source
	timeout time.Duration
	// lazy pages answer at once with the loading panel and let the browser fetch the panel fragment
	lazy   bool
	logger *zap.SugaredLogger
}

func NewHandler(orders Source, timeout time.Duration, lazy bool, logger *zap.SugaredLogger) *handler {
	return &handler{orders: orders, timeout: timeout, lazy: lazy, logger: logger}
}

// GetPage serves the landing page for any path; /equipment-order/<reg> turns on the deep-link view.
func (h *handler) GetPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	regNumber, ok := ParseDeepLink(r.URL.Path)
	var panel Panel
	switch {
	case !ok:
	case h.lazy:
		panel = LoadingPanel()
		panel.RegNumber = regNumber
	default:
		panel = h.loadPanel(r.Context(), regNumber)
	}

	if err := RenderPage(w, ok, panel); err != nil {
		h.logger.Errorf("render equipment page: %v", err)
	}
}

// GetPanel serves only the deep-link container content for one order.
func (h *handler) GetPanel(w http.ResponseWriter, r *http.Request) {
	regNumber := chi.URLParam(r, "regNumber")
	if regNumber == "" {
		http.Error(w, "Missing order ID", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := RenderPanel(w, h.loadPanel(r.Context(), regNumber)); err != nil {
		h.logger.Errorf("render equipment panel: %v", err)
	}
}

func (h *handler) loadPanel(ctx context.Context, regNumber string) Panel {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	order, err := h.orders.GetEquipmentOrderByRegNumber(ctx, regNumber)
	if err != nil {
		h.logger.Errorf("error fetching equipment order %v: %v", regNumber, err)
		return ErrorPanel(LoadErrorMessage)
	}
	return OrderPanel(order)
}
