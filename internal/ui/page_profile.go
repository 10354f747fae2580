package ui

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"parquet-explorer/internal/domain"
)

func profilePage(p *domain.DataProfile, tables []string) Node {
	return page("Profile: "+p.Table,
		tablePicker(tables, p.Table),
		profileSummary(p),
		columnTable(p.Columns),
	)
}

func tablePicker(tables []string, selected string) Node {
	if len(tables) == 0 {
		return nil
	}
	return Form(Class("table-picker"), Method("get"), Action("/ui/profile"),
		Label(For("table"), Text("Table")),
		Select(ID("table"), Name("table"),
			Map(tables, func(t string) Node {
				return Option(Value(t), Text(t), If(t == selected, Selected()))
			}),
		),
		Button(Type("submit"), Text("Profile")),
	)
}

func profileSummary(p *domain.DataProfile) Node {
	return Div(Class("summary"),
		summaryCard("Rows", Text(formatCount(p.TotalRows))),
		summaryCard("Columns", Text(formatCount(int64(p.TotalColumns)))),
		summaryCard("Completeness", Text(formatPercent(p.Completeness))),
		summaryCard("Quality score", Span(Class(scoreClass(p.DataQualityScore)), Text(formatCount(int64(p.DataQualityScore))))),
	)
}

func summaryCard(title string, value Node) Node {
	return Div(Class("card"),
		H2(Text(title)),
		Div(Class("value"), value),
	)
}

func scoreClass(score int) string {
	switch {
	case score >= 80:
		return "score-good"
	case score >= 50:
		return "score-fair"
	default:
		return "score-poor"
	}
}

func columnTable(cols []domain.ColumnProfile) Node {
	return Table(
		THead(Tr(
			Th(Text("Column")), Th(Text("Type")), Th(Text("Nulls")), Th(Text("Unique")),
			Th(Text("Cardinality")), Th(Text("Min")), Th(Text("Max")), Th(Text("Avg")),
			Th(Text("Median")), Th(Text("Std dev")), Th(Text("Top values")),
		)),
		TBody(Map(cols, columnRow)),
	)
}

func columnRow(c domain.ColumnProfile) Node {
	stats := []Node{Td(), Td(), Td(), Td(), Td()}
	if c.Numeric != nil {
		stats = []Node{
			Td(Class("num"), Text(formatValue(c.Numeric.Min))),
			Td(Class("num"), Text(formatValue(c.Numeric.Max))),
			Td(Class("num"), Text(formatStat(c.Numeric.Avg, 2))),
			Td(Class("num"), Text(formatStat(c.Numeric.Median, 2))),
			Td(Class("num"), Text(formatStat(c.Numeric.StdDev, 2))),
		}
	}
	return Tr(
		Td(Strong(Text(c.Name))),
		Td(Span(Class("label"), Text(c.Type))),
		Td(Class("num"), Text(formatCount(c.NullCount)+" ("+formatPercent(c.NullPercentage)+")")),
		Td(Class("num"), Text(formatCount(c.UniqueCount))),
		Td(Class("num"), Text(formatFloat(c.Cardinality, 3))),
		Group(stats),
		Td(topValues(c.TopValues)),
	)
}

func topValues(values []domain.TopValue) Node {
	if len(values) == 0 {
		return nil
	}
	return Ul(Class("top-values"),
		Map(values, func(v domain.TopValue) Node {
			return Li(Text(formatValue(v.Value) + ": " + formatCount(v.Count) + " (" + formatPercent(v.Percentage) + ")"))
		}),
	)
}
