package order

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"stroyka/internal/meta"
	"stroyka/internal/order/model"
)

const cacheControl = "public, max-age=300, s-maxage=600, stale-while-revalidate=86400"

// Source is the upstream the handlers read orders from.
type Source interface {
	GetOrderByRegNumber(ctx context.Context, regNumber string) (*model.Order, error)
	GetOrders(ctx context.Context) ([]model.Order, error)
}

type Options struct {
	SiteURL      string
	LogoURL      string
	TemplatesDir string
	FetchTimeout time.Duration
	ListTimeout  time.Duration
}

//go:embed templates/orders.html
var templatesFS embed.FS

var ordersTmpl = template.Must(template.ParseFS(templatesFS, "templates/orders.html"))

type handler struct {
	orders Source
	opts   Options
	logger *zap.SugaredLogger
	group  singleflight.Group
}

func NewHandler(orders Source, opts Options, logger *zap.SugaredLogger) *handler {
	return &handler{orders: orders, opts: opts, logger: logger}
}

// GetOGOrder serves order.html with link-preview tags filled from the order.
func (h *handler) GetOGOrder(w http.ResponseWriter, r *http.Request) {
	regNumber := r.URL.Query().Get("id")
	if regNumber == "" {
		// 400 — не передан номер заказа
		http.Error(w, "Missing order ID", http.StatusBadRequest)
	} else if page, err := os.ReadFile(filepath.Join(h.opts.TemplatesDir, "order", "order.html")); err != nil {
		// 500 — внутренняя ошибка сервера
		h.logger.Errorf("read order template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	} else {
		order := h.fetchOrder(r.Context(), regNumber)
		html := meta.Inject(string(page), meta.Tags{
			Title:       meta.Title(order),
			Description: meta.Description(order),
			URL:         h.opts.SiteURL + "/order/" + regNumber,
			Image:       h.opts.LogoURL,
		})

		// 200 — страница с тегами заказа
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheControl)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html))
	}
}

// fetchOrder never fails: any upstream problem is logged and reported as nil.
// Concurrent previews of the same order share one upstream call.
func (h *handler) fetchOrder(ctx context.Context, regNumber string) *model.Order {
	v, err, _ := h.group.Do(regNumber, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.opts.FetchTimeout)
		defer cancel()
		return h.orders.GetOrderByRegNumber(ctx, regNumber)
	})
	if err != nil {
		h.logger.Warnf("fetch order %v for preview: %v", regNumber, err)
		return nil
	}
	return v.(*model.Order)
}

type ordersPage struct {
	Orders []model.Order
	Error  string
}

// GetOrders renders every order the upstream returns, in response order.
func (h *handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.ListTimeout)
	defer cancel()

	var data ordersPage
	if orders, err := h.orders.GetOrders(ctx); err != nil {
		h.logger.Errorf("load orders: %v", err)
		data.Error = "Ошибка загрузки заказов"
	} else {
		data.Orders = orders
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ordersTmpl.Execute(w, data); err != nil {
		h.logger.Errorf("render orders: %v", err)
	}
}
