package order

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stroyka/internal/meta"
	"stroyka/internal/order/model"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) GetOrderByRegNumber(ctx context.Context, regNumber string) (*model.Order, error) {
	args := m.Called(regNumber)
	order, _ := args.Get(0).(*model.Order)
	return order, args.Error(1)
}

func (m *mockSource) GetOrders(ctx context.Context) ([]model.Order, error) {
	args := m.Called()
	return args.Get(0).([]model.Order), args.Error(1)
}

// slowSource blocks until the caller's context expires.
type slowSource struct {
	calls int32
}

func (s *slowSource) GetOrderByRegNumber(ctx context.Context, regNumber string) (*model.Order, error) {
	atomic.AddInt32(&s.calls, 1)
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *slowSource) GetOrders(ctx context.Context) ([]model.Order, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

var logger = zap.NewExample().Sugar()

const testPage = `<html><head>
<title>old</title>
<meta name="description" content="old">
<meta property="og:title" content="old">
<meta property="og:description" content="old">
<meta property="og:url" content="old">
<meta property="og:image" content="old">
<meta name="twitter:title" content="old">
<meta name="twitter:description" content="old">
<meta name="twitter:url" content="old">
<meta name="twitter:image" content="old">
</head></html>`

func templatesDir(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "order"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order", "order.html"), []byte(testPage), 0o644))
	return dir
}

func testOptions(dir string) Options {
	return Options{
		SiteURL:      "https://app.stroyka.kz",
		LogoURL:      "https://app.stroyka.kz/logo.png",
		TemplatesDir: dir,
		FetchTimeout: 50 * time.Millisecond,
		ListTimeout:  50 * time.Millisecond,
	}
}

func Test_handler_GetOGOrder(t *testing.T) {
	dir := templatesDir(t)
	defaultHandler := func() *handler {
		return &handler{orders: new(mockSource), opts: testOptions(dir), logger: logger}
	}
	tests := []struct {
		name             string
		code             int
		target           string
		getHandler       func() *handler
		checkResponeBody func(t *testing.T, body string)
	}{
		{
			name:       "нет номера заказа",
			code:       400,
			target:     "/api/og-order",
			getHandler: defaultHandler,
			checkResponeBody: func(t *testing.T, body string) {
				assert.Equal(t, "Missing order ID\n", body)
			},
		},
		{
			name:   "заказ найден",
			code:   200,
			target: "/api/og-order?id=A-1",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrderByRegNumber", "A-1").Return(&model.Order{
					Name:        "Кладка",
					OrderAmount: "90000",
					Address:     &model.Address{Name: model.NewName("Астана")},
					Description: "Гараж",
				}, nil)
				return &handler{orders: storage, opts: testOptions(dir), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "<title>Stroyka.kz - Заказ: Кладка</title>")
				assert.Contains(t, body, `<meta property="og:description" content="Кладка - 90000. Город: Астана. Гараж...">`)
				assert.Contains(t, body, `<meta property="og:url" content="https://app.stroyka.kz/order/A-1">`)
				assert.Contains(t, body, `<meta name="twitter:image" content="https://app.stroyka.kz/logo.png">`)
			},
		},
		{
			name:   "ошибка апстрима подменяется текстом по умолчанию",
			code:   200,
			target: "/api/og-order?id=A-2",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrderByRegNumber", "A-2").Return(nil, errors.New("connection refused"))
				return &handler{orders: storage, opts: testOptions(dir), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assertFallback(t, body)
			},
		},
		{
			name:   "спецсимволы экранируются",
			code:   200,
			target: "/api/og-order?id=A-3",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrderByRegNumber", "A-3").Return(&model.Order{
					Name:        `<script>alert("x")</script>`,
					Description: `Tom & Jerry's`,
				}, nil)
				return &handler{orders: storage, opts: testOptions(dir), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assert.NotContains(t, body, "<script>")
				assert.NotContains(t, body, `"x"`)
				assert.NotContains(t, body, "Tom & Jerry's")
				assert.Equal(t, 6, strings.Count(body, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"))
				assert.Equal(t, 3, strings.Count(body, "Tom &amp; Jerry&#039;s..."))
			},
		},
		{
			name:   "шаблон не найден",
			code:   500,
			target: "/api/og-order?id=A-4",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrderByRegNumber", "A-4").Return(&model.Order{Name: "x"}, nil)
				return &handler{orders: storage, opts: testOptions(t.TempDir()), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assert.Equal(t, "Internal Server Error\n", body)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.target, nil)

			w := httptest.NewRecorder()
			h := http.HandlerFunc(tt.getHandler().GetOGOrder)
			h.ServeHTTP(w, request)
			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.code, res.StatusCode, "wrong status")
			if res.StatusCode == http.StatusOK {
				assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
				assert.Equal(t, cacheControl, res.Header.Get("Cache-Control"))
			}
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			if tt.checkResponeBody != nil {
				tt.checkResponeBody(t, string(body))
			}
		})
	}
}

func Test_handler_GetOGOrder_UpstreamTimeout(t *testing.T) {
	h := &handler{orders: &slowSource{}, opts: testOptions(templatesDir(t)), logger: logger}

	request := httptest.NewRequest(http.MethodGet, "/api/og-order?id=SLOW", nil)
	w := httptest.NewRecorder()
	h.GetOGOrder(w, request)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	assertFallback(t, string(body))
}

// gatedSource holds every upstream call until release is closed.
type gatedSource struct {
	calls   int32
	release chan struct{}
}

func (s *gatedSource) GetOrderByRegNumber(ctx context.Context, regNumber string) (*model.Order, error) {
	atomic.AddInt32(&s.calls, 1)
	select {
	case <-s.release:
		return &model.Order{Name: "Общий заказ"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *gatedSource) GetOrders(ctx context.Context) ([]model.Order, error) {
	return nil, nil
}

func Test_handler_GetOGOrder_SharesUpstreamCall(t *testing.T) {
	source := &gatedSource{release: make(chan struct{})}
	h := &handler{orders: source, opts: testOptions(templatesDir(t)), logger: logger}
	h.opts.FetchTimeout = 5 * time.Second

	const requests = 5
	var started, wg sync.WaitGroup
	started.Add(requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			w := httptest.NewRecorder()
			h.GetOGOrder(w, httptest.NewRequest(http.MethodGet, "/api/og-order?id=SAME", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Заказ: Общий заказ")
		}()
	}
	started.Wait()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&source.calls) == 1 }, time.Second, 5*time.Millisecond)
	// даём остальным запросам дойти до ожидания общего вызова
	time.Sleep(100 * time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls))
}

func Test_handler_GetOGOrder_MissingTemplateSkipsUpstream(t *testing.T) {
	storage := new(mockSource)
	h := &handler{orders: storage, opts: testOptions(t.TempDir()), logger: logger}

	w := httptest.NewRecorder()
	h.GetOGOrder(w, httptest.NewRequest(http.MethodGet, "/api/og-order?id=A-5", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	storage.AssertNotCalled(t, "GetOrderByRegNumber", "A-5")
}

func assertFallback(t *testing.T, body string) {
	t.Helper()
	title := meta.Escape(meta.DefaultTitle)
	description := meta.Escape(meta.DefaultDescription)

	assert.Contains(t, body, "<title>"+title+"</title>")
	assert.Contains(t, body, `<meta property="og:title" content="`+title+`">`)
	assert.Contains(t, body, `<meta name="twitter:title" content="`+title+`">`)
	assert.Contains(t, body, `<meta name="description" content="`+description+`">`)
	assert.Contains(t, body, `<meta property="og:description" content="`+description+`">`)
	assert.Contains(t, body, `<meta name="twitter:description" content="`+description+`">`)
	assert.NotContains(t, body, `content="old"`)
}

func Test_handler_GetOrders(t *testing.T) {
	tests := []struct {
		name             string
		getHandler       func() *handler
		checkResponeBody func(t *testing.T, body string)
	}{
		{
			name: "успешная обработка запроса",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrders").Return([]model.Order{
					{ID: "1", Email: "first@stroyka.kz", Phone: "+77010000001", Status: "NEW"},
					{ID: "2", Email: "second@stroyka.kz", Phone: "+77010000002", Status: "DONE"},
				}, nil)
				return &handler{orders: storage, opts: testOptions(""), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assert.Equal(t, 2, strings.Count(body, `class="order"`))
				first := strings.Index(body, "first@stroyka.kz")
				second := strings.Index(body, "second@stroyka.kz")
				assert.True(t, first > 0 && second > first, "orders must keep response order")
				assert.NotContains(t, body, "Нет заказов")
			},
		},
		{
			name: "нет данных для ответа",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrders").Return([]model.Order{}, nil)
				return &handler{orders: storage, opts: testOptions(""), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "Нет заказов")
				assert.NotContains(t, body, `class="order"`)
			},
		},
		{
			name: "ошибка загрузки",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrders").Return([]model.Order{}, errors.New("unexpected exception"))
				return &handler{orders: storage, opts: testOptions(""), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "Ошибка: Ошибка загрузки заказов")
				assert.NotContains(t, body, "Нет заказов")
			},
		},
		{
			name: "значения экранируются",
			getHandler: func() *handler {
				storage := new(mockSource)
				storage.On("GetOrders").Return([]model.Order{{ID: "1", Email: "<img src=x>"}}, nil)
				return &handler{orders: storage, opts: testOptions(""), logger: logger}
			},
			checkResponeBody: func(t *testing.T, body string) {
				assert.NotContains(t, body, "<img src=x>")
				assert.Contains(t, body, "&lt;img src=x&gt;")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/orders", nil)

			w := httptest.NewRecorder()
			h := http.HandlerFunc(tt.getHandler().GetOrders)
			h.ServeHTTP(w, request)
			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, http.StatusOK, res.StatusCode, "wrong status")
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			tt.checkResponeBody(t, string(body))
		})
	}
}
