package ui

import (
	"fmt"
	"strconv"
	"strings"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"

	"louslist/internal/domain"
)

type dashboardView struct {
	Query  string
	Preset string
	Result *domain.Dataset
	Error  string
}

func dashboardPage(v dashboardView) Node {
	return layout("Course search",
		searchForm(v),
		If(v.Error != "", Div(Class("card flash-error"), Role("alert"), Text(v.Error))),
		resultsSection(v),
	)
}

func layout(title string, body ...Node) Node {
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Lou's List")),
			Link(Rel("icon"), Href("data:,")),
			StyleEl(Raw(stylesheet)),
			Script(
				Type("module"),
				Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"),
			),
		),
		Body(
			Main(Class("layout"),
				Header(
					H1(Class("page-title"), Text(title)),
					P(Class("muted"), Text("Search the cached Lou's List course data. "),
						A(Href("/getcsv"), Text("Download CSV")), Text(" · "),
						A(Href("/fetch/history"), Text("Fetch history"))),
				),
				Group(body),
			),
		),
	)
}

func searchForm(v dashboardView) Node {
	presets := []Node{Option(Value(""), Text("All columns"), If(v.Preset == "", Selected()))}
	for _, name := range domain.PresetNames() {
		presets = append(presets, Option(Value(name), Text(name), If(v.Preset == name, Selected())))
	}
	return Form(
		Class("card toolbar"),
		Method("get"),
		Action("/dashboard"),
		Label(For("query"), Class("sr-only"), Text("Query")),
		Input(Type("search"), ID("query"), Name("query"), Value(v.Query), Placeholder("Title, instructor, room, class number..."), AutoFocus()),
		Label(For("preset"), Class("sr-only"), Text("Columns")),
		Select(ID("preset"), Name("preset"), Group(presets)),
		Button(Type("submit"), Class("btn btn-primary"), Text("Search")),
	)
}

// resultsSection renders nothing until a search has produced a result.
func resultsSection(v dashboardView) Node {
	ds := v.Result
	if ds == nil {
		return nil
	}
	if ds.Len() == 0 {
		return Div(Class("card blankslate"), P(Class("muted"), Text(fmt.Sprintf("No courses match %q.", v.Query))))
	}

	head := make([]Node, 0, len(ds.Columns))
	for _, c := range ds.Columns {
		head = append(head, Th(Text(c)))
	}

	rows := make([]Node, 0, ds.Len())
	for _, row := range ds.Rows {
		cells := make([]Node, 0, len(row))
		texts := make([]string, 0, len(row))
		for _, val := range row {
			s := val.String()
			texts = append(texts, s)
			cells = append(cells, Td(Text(s)))
		}
		rows = append(rows, Tr(data.Show(containsExpr(strings.Join(texts, " "))), Group(cells)))
	}

	return Section(
		Div(
			Class("card toolbar"),
			data.Signals(map[string]any{"q": ""}),
			P(Class("muted"), Text(strconv.Itoa(ds.Len())+" matching rows")),
			Input(Type("search"), Class("form-control"), Placeholder("Narrow these results"), data.Bind("q"), AutoComplete("off")),
		),
		Div(Class("card table-wrap"),
			Table(Class("data-table"), THead(Tr(Group(head))), TBody(Group(rows))),
		),
	)
}

// containsExpr builds a datastar show expression that keeps a row visible
// while the quick filter signal $q is empty or contained in value.
func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}

const stylesheet = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f6f8fa; color: #1f2328; }
.layout { max-width: 72rem; margin: 0 auto; padding: 1.5rem; }
.page-title { margin: 0 0 .25rem; font-size: 1.5rem; }
.muted { color: #59636e; font-size: .875rem; }
.card { background: #fff; border: 1px solid #d1d9e0; border-radius: 6px; padding: .75rem; margin-bottom: .75rem; }
.toolbar { display: flex; flex-wrap: wrap; gap: .5rem; align-items: center; }
.toolbar input[type=search] { flex: 1; min-width: 12rem; padding: .375rem .5rem; }
.btn { padding: .375rem .75rem; border-radius: 6px; border: 1px solid #d1d9e0; cursor: pointer; }
.btn-primary { background: #1f883d; color: #fff; border-color: #1f883d; }
.flash-error { border-color: #ff818266; background: #ffebe9; }
.table-wrap { overflow-x: auto; padding: 0; }
.data-table { border-collapse: collapse; width: 100%; font-size: .8125rem; }
.data-table th, .data-table td { text-align: left; padding: .375rem .5rem; border-bottom: 1px solid #d1d9e0; white-space: nowrap; }
.sr-only { position: absolute; width: 1px; height: 1px; overflow: hidden; clip: rect(0 0 0 0); }
`
