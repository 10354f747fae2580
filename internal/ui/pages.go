package ui

import (
	"fmt"
	"strconv"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"parquet-explorer/internal/engine"
)

func head(title string) Node {
	return Head(
		Meta(Charset("utf-8")),
		Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
		TitleEl(Text(title+" | Parquet Explorer")),
		Link(Rel("icon"), Href("data:,")),
		Link(Rel("stylesheet"), Href("/ui/static/app.css")),
	)
}

func page(title string, body ...Node) Node {
	return HTML(
		Lang("en"),
		head(title),
		Body(
			Main(Class("layout"),
				H1(Class("page-title"), Text(title)),
				Group(body),
			),
		),
	)
}

func errorPage(title, message string) Node {
	return HTML(
		Lang("en"),
		head(title),
		Body(
			Main(
				Class("layout"),
				H1(Class("page-title"), Text(title)),
				P(Text(message)),
				P(A(Href("/ui/profile"), Text("Back to profile"))),
			),
		),
	)
}

func formatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// formatStat renders an optional statistic; nil prints as NULL.
func formatStat(v *float64, prec int) string {
	if v == nil {
		return "NULL"
	}
	return formatFloat(*v, prec)
}

func formatPercent(v float64) string {
	return formatFloat(v, 1) + "%"
}

// formatValue renders a normalized engine value; nil prints as NULL.
func formatValue(v any) string {
	switch x := engine.Normalize(v).(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
