// Package meta builds link-preview copy for an order and writes it into the
// title, description, Open Graph and Twitter tags of a static HTML page.
package meta

import (
	"regexp"
	"strings"

	"stroyka/internal/order/model"
	"stroyka/internal/utils"
)

const (
	DefaultTitle            = "Stroyka.kz - Заказ на стройматериалы"
	DefaultDescription      = "Просмотрите заказ на стройматериалы в приложении Stroyka.kz"
	titlePrefix             = "Stroyka.kz - Заказ: "
	noDescriptionText       = "Просмотрите заказ в приложении Stroyka.kz"
	defaultOrderName        = "Заказ"
	descriptionPreviewRunes = 100
)

// Tags are the values written into the page.
type Tags struct {
	Title       string
	Description string
	URL         string
	Image       string
}

// Title is "Stroyka.kz - Заказ: <name>" or the generic copy when the order or its name is missing.
func Title(o *model.Order) string {
	if o == nil || o.Name == "" {
		return DefaultTitle
	}
	return titlePrefix + o.Name
}

func Description(o *model.Order) string {
	if o == nil {
		return DefaultDescription
	}

	var b strings.Builder
	b.WriteString(utils.Or(o.Name, defaultOrderName))
	if !o.OrderAmount.IsZero() {
		b.WriteString(" - ")
		b.WriteString(o.OrderAmount.String())
	}
	b.WriteString(". ")
	if city := o.AddressName(); city != "" {
		b.WriteString("Город: ")
		b.WriteString(city)
		b.WriteString(". ")
	}
	if o.Description != "" {
		b.WriteString(utils.Truncate(o.Description, descriptionPreviewRunes))
	} else {
		b.WriteString(noDescriptionText)
	}
	b.WriteString("...")
	return b.String()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces the five HTML-special characters with entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

type rule struct {
	re     *regexp.Regexp
	render func(t Tags) string
	// when set, the rule applies only if the page contains this marker
	marker string
}

func metaName(name string, value func(Tags) string) rule {
	return rule{
		re: regexp.MustCompile(`<meta name="` + regexp.QuoteMeta(name) + `" content=".*?">`),
		render: func(t Tags) string {
			return `<meta name="` + name + `" content="` + Escape(value(t)) + `">`
		},
	}
}

func metaProperty(property string, value func(Tags) string) rule {
	return rule{
		re: regexp.MustCompile(`<meta property="` + regexp.QuoteMeta(property) + `" content=".*?">`),
		render: func(t Tags) string {
			return `<meta property="` + property + `" content="` + Escape(value(t)) + `">`
		},
	}
}

func title(t Tags) string       { return t.Title }
func description(t Tags) string { return t.Description }
func pageURL(t Tags) string     { return t.URL }
func image(t Tags) string       { return t.Image }

var rules = func() []rule {
	descr := metaName("description", description)
	descr.marker = `<meta name="description"`
	return []rule{
		{
			re:     regexp.MustCompile(`<title>.*?</title>`),
			render: func(t Tags) string { return "<title>" + Escape(t.Title) + "</title>" },
		},
		descr,
		metaProperty("og:title", title),
		metaProperty("og:description", description),
		metaProperty("og:url", pageURL),
		metaProperty("og:image", image),
		metaName("twitter:title", title),
		metaName("twitter:description", description),
		metaName("twitter:url", pageURL),
		metaName("twitter:image", image),
	}
}()

// Inject replaces the first occurrence of every known tag. Tags absent from
// the page are left absent; values are escaped and inserted literally.
func Inject(html string, t Tags) string {
	for _, r := range rules {
		if r.marker != "" && !strings.Contains(html, r.marker) {
			continue
		}
		loc := r.re.FindStringIndex(html)
		if loc == nil {
			continue
		}
		html = html[:loc[0]] + r.render(t) + html[loc[1]:]
	}
	return html
}
