// Package viewer is the interactive terminal document view.
package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/mdviewer/internal/editor"
	"github.com/mithrel/mdviewer/internal/render"
	"github.com/mithrel/mdviewer/pkg/api"
)

const (
	headerHeight = 1
	footerHeight = 1
	emptyHint    = "\n  No document open.\n\n  Press r for recent files or q to quit.\n"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	faint      = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Run shows initial (which may be nil) until the user quits. Pending startup
// content is passed in here rather than held anywhere global.
func Run(ctx context.Context, deps Deps, initial *api.Document) error {
	m := newModel(ctx, deps, initial)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type docLoadedMsg struct {
	doc api.Document
	err error
	// reloaded keeps the scroll position
	reloaded bool
}

type recentMsg struct {
	items  []api.RecentItem
	status string
}

type model struct {
	ctx      context.Context
	deps     Deps
	doc      *api.Document
	vp       viewport.Model
	dialog   *recentDialog
	width    int
	height   int
	status   string
	statusOK bool
	now      func() time.Time
}

func newModel(ctx context.Context, deps Deps, initial *api.Document) model {
	m := model{ctx: ctx, deps: deps, now: time.Now}
	if initial != nil && initial.HasContent() {
		d := *initial
		m.doc = &d
	}
	m.vp = viewport.New(80, 22)
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	if m.doc == nil {
		return m.loadRecent("")
	}
	return nil
}

// refresh re-renders the current document at the current width.
func (m *model) refresh() {
	if m.doc == nil {
		m.vp.SetContent(emptyHint)
		return
	}
	opts := m.deps.Render
	if opts.WordWrap <= 0 && m.width > 4 {
		opts.WordWrap = m.width - 4
	}
	out, err := render.Terminal(m.doc.Content, opts)
	if err != nil {
		m.setStatus(fmt.Sprintf("Render failed: %v", err), false)
		out = m.doc.Content
	}
	m.vp.SetContent(out)
}

func (m *model) setStatus(s string, ok bool) {
	m.status = s
	m.statusOK = ok
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-headerHeight-footerHeight)
		m.refresh()
		if m.dialog != nil {
			m.dialog.resize(msg.Width, msg.Height)
		}
		return m, nil
	case recentMsg:
		if m.dialog == nil {
			m.dialog = newRecentDialog(m.width, m.height, m.now)
		}
		m.dialog.setItems(msg.items)
		if msg.status != "" {
			m.setStatus(msg.status, true)
		}
		return m, nil
	case docLoadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Error: %v", msg.err), false)
			// the failed open may still have bumped a timestamp
			if m.dialog != nil {
				return m, m.loadRecent("")
			}
			return m, nil
		}
		d := msg.doc
		m.doc = &d
		m.dialog = nil
		m.setStatus("", true)
		m.refresh()
		if !msg.reloaded {
			m.vp.GotoTop()
		}
		return m, nil
	case tea.KeyMsg:
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m.quit()
		case "r":
			return m, m.loadRecent("")
		case "e":
			return m.edit()
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.doc != nil {
		m.deps.Tracker.FileClosed()
	}
	return m, tea.Quit
}

// edit hands the terminal to the user's editor and reloads the file after.
func (m model) edit() (tea.Model, tea.Cmd) {
	if m.doc == nil || m.doc.Source.Kind != api.SourceLocalFile || !filepath.IsAbs(m.doc.Source.Path) {
		m.setStatus("Only local files can be edited", false)
		return m, nil
	}
	cmd, err := editor.Command(m.doc.Source.Path)
	if err != nil {
		m.setStatus(err.Error(), false)
		return m, nil
	}
	ctx, loader, src := m.ctx, m.deps.Loader, m.doc.Source
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return docLoadedMsg{err: fmt.Errorf("editor: %w", err)}
		}
		doc, err := loader.Reload(ctx, src)
		return docLoadedMsg{doc: doc, err: err, reloaded: true}
	})
}

func (m model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialog
	if d.filtering {
		switch msg.String() {
		case "enter":
			d.stopFilter(false)
			return m, nil
		case "esc":
			d.stopFilter(true)
			return m, nil
		case "ctrl+c":
			return m.quit()
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		d.applyFilter()
		return m, cmd
	}
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "esc", "r":
		m.dialog = nil
		return m, nil
	case "/":
		d.startFilter()
		return m, textinput.Blink
	case "enter":
		if it, ok := d.selected(); ok {
			m.setStatus("Opening "+it.DisplayName+"…", true)
			return m, m.openRecent(it)
		}
		return m, nil
	case "d":
		if it, ok := d.selected(); ok {
			return m, m.removeRecent(it)
		}
		return m, nil
	case "C":
		return m, m.clearRecent()
	}
	var cmd tea.Cmd
	d.table, cmd = d.table.Update(msg)
	return m, cmd
}

func (m model) loadRecent(status string) tea.Cmd {
	ctx, store := m.ctx, m.deps.Recent
	return func() tea.Msg {
		return recentMsg{items: store.List(ctx), status: status}
	}
}

func (m model) removeRecent(it api.RecentItem) tea.Cmd {
	ctx, store := m.ctx, m.deps.Recent
	return func() tea.Msg {
		status := "Removed " + it.DisplayName
		if err := store.Remove(ctx, it.Path); err != nil {
			status = fmt.Sprintf("Remove failed: %v", err)
		}
		return recentMsg{items: store.List(ctx), status: status}
	}
}

func (m model) clearRecent() tea.Cmd {
	ctx, store := m.ctx, m.deps.Recent
	return func() tea.Msg {
		status := "Cleared recent files"
		if err := store.Clear(ctx); err != nil {
			status = fmt.Sprintf("Clear failed: %v", err)
		}
		return recentMsg{items: store.List(ctx), status: status}
	}
}

func (m model) openRecent(it api.RecentItem) tea.Cmd {
	ctx, deps := m.ctx, m.deps
	return func() tea.Msg {
		doc, err := deps.OpenRecent(ctx, it)
		return docLoadedMsg{doc: doc, err: err}
	}
}

func (m model) title() string {
	if m.doc == nil {
		return api.ContentSource{}.Title()
	}
	return m.doc.Source.Title()
}

func (m model) renderFooter() string {
	left := "↑/↓ scroll • r=recent • e=edit • q=quit"
	right := fmt.Sprintf("%3.f%% ", m.vp.ScrollPercent()*100)
	if m.status != "" {
		st := m.status
		if !m.statusOK {
			st = errStyle.Render(st)
		}
		right = st + " • " + right
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return faint.Render(left) + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	header := titleStyle.Render(m.title())
	body := m.vp.View()
	if m.dialog != nil {
		body = renderOverlay(body, m.dialog.View(), m.width, m.vp.Height)
	}
	return header + "\n" + body + "\n" + m.renderFooter()
}
