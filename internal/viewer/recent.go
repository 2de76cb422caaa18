package viewer

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mithrel/mdviewer/internal/util"
	"github.com/mithrel/mdviewer/pkg/api"
)

// recentDialog lists recent items over the document view.
type recentDialog struct {
	all       []api.RecentItem
	shown     []api.RecentItem
	table     table.Model
	input     textinput.Model
	filtering bool
	now       func() time.Time
	width     int
	height    int
	box       lipgloss.Style
}

func newRecentDialog(termW, termH int, now func() time.Time) *recentDialog {
	if now == nil {
		now = time.Now
	}
	d := &recentDialog{now: now}
	d.input = textinput.New()
	d.input.Prompt = "/"
	d.input.Placeholder = "filter"
	d.table = table.New(table.WithColumns(d.columns(60)), table.WithFocused(true))
	d.applyStyles()
	d.resize(termW, termH)
	return d
}

func (d *recentDialog) resize(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.8)
	if termW < 80 {
		w = termW - 2
	}
	if w > 120 {
		w = 120
	}
	h := termH - 4
	if h < 8 {
		h = 8
	}
	d.width, d.height = w, h
	d.box = lipgloss.NewStyle().
		Width(w).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))

	inner := w - 4
	d.input.Width = max(10, inner-lipgloss.Width(d.input.Prompt)-1)
	d.table.SetColumns(d.columns(inner))
	d.table.SetWidth(inner)
	// title, filter line, help and the border
	d.table.SetHeight(max(3, h-6))
}

func (d *recentDialog) columns(inner int) []table.Column {
	nameW, typeW, openedW := 24, 5, 16
	pathW := inner - nameW - typeW - openedW - 8
	if pathW < 10 {
		pathW = 10
	}
	return []table.Column{
		{Title: "Name", Width: nameW},
		{Title: "Type", Width: typeW},
		{Title: "Opened", Width: openedW},
		{Title: "Path", Width: pathW},
	}
}

func (d *recentDialog) applyStyles() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	d.table.SetStyles(s)
}

func (d *recentDialog) setItems(items []api.RecentItem) {
	d.all = items
	d.applyFilter()
}

func (d *recentDialog) applyFilter() {
	d.shown = util.FilterRecent(strings.TrimSpace(d.input.Value()), d.all)
	now := d.now()
	rows := make([]table.Row, 0, len(d.shown))
	for _, it := range d.shown {
		rows = append(rows, table.Row{
			it.DisplayName,
			string(it.Type),
			humanize.RelTime(it.OpenedAt(), now, "ago", "from now"),
			it.Path,
		})
	}
	d.table.SetRows(rows)
	cur := d.table.Cursor()
	if cur >= len(rows) {
		cur = len(rows) - 1
	}
	if cur < 0 {
		cur = 0
	}
	d.table.SetCursor(cur)
}

func (d *recentDialog) selected() (api.RecentItem, bool) {
	idx := d.table.Cursor()
	if idx < 0 || idx >= len(d.shown) {
		return api.RecentItem{}, false
	}
	return d.shown[idx], true
}

func (d *recentDialog) startFilter() {
	d.filtering = true
	d.input.Focus()
	d.table.Blur()
}

func (d *recentDialog) stopFilter(reset bool) {
	d.filtering = false
	d.input.Blur()
	d.table.Focus()
	if reset {
		d.input.SetValue("")
		d.applyFilter()
	}
}

func (d *recentDialog) View() string {
	title := titleStyle.Render("Recent files")
	var body string
	if len(d.all) == 0 {
		body = faint.Render("(no recent files)")
	} else if len(d.shown) == 0 {
		body = faint.Render("(no matches)")
	} else {
		body = d.table.View()
	}
	filter := ""
	if d.filtering || d.input.Value() != "" {
		filter = d.input.View()
	}
	help := faint.Render("enter=open • /=filter • d=remove • C=clear • esc=close")
	return d.box.Render(strings.Join([]string{title, filter, body, help}, "\n"))
}
