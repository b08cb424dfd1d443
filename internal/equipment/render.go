package equipment

import (
	"embed"
	"html/template"
	"io"

	"stroyka/internal/order/model"
	"stroyka/internal/utils"
)

const (
	LoadErrorMessage = "Не удалось загрузить данные заказа. Проверьте подключение к интернету."
)

type panelState int

const (
	panelLoading panelState = iota
	panelOrder
	panelError
)

// Panel is the content of the deep-link container.
type Panel struct {
	State   panelState
	Order   *model.EquipmentOrder
	Message string
	// RegNumber is set on a loading panel so the page knows which fragment to fetch.
	RegNumber string
}

func (p Panel) Loading() bool { return p.State == panelLoading }
func (p Panel) Failed() bool  { return p.State == panelError }

type page struct {
	DeepLink bool
	Panel    Panel
}

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(template.New("equipment").Funcs(template.FuncMap{
	"dash": utils.OrDash,
}).ParseFS(templatesFS, "templates/*.html"))

func LoadingPanel() Panel {
	return Panel{State: panelLoading}
}

func OrderPanel(order *model.EquipmentOrder) Panel {
	return Panel{State: panelOrder, Order: order}
}

func ErrorPanel(message string) Panel {
	return Panel{State: panelError, Message: message}
}

// RenderPanel writes only the deep-link container content.
func RenderPanel(w io.Writer, p Panel) error {
	return tmpl.ExecuteTemplate(w, "panel", p)
}

// RenderPage writes the landing page. Without a deep link the default content
// is shown and the deep-link container is hidden, and vice versa.
func RenderPage(w io.Writer, deepLink bool, p Panel) error {
	return tmpl.ExecuteTemplate(w, "page", page{DeepLink: deepLink, Panel: p})
}
