package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartlib/internal/core/ports"
	"smartlib/internal/data/library"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	routeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	mapStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

type item struct {
	id, title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type panelMode int

const (
	panelBooks panelMode = iota
	panelShelves
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputForm
	inputConfirmDelete
)

type model struct {
	svc  ports.LibraryService
	keys keyMap
	help help.Model

	bookList   list.Model
	shelfTable table.Model
	mode       panelMode
	input      inputMode

	search textinput.Model
	form   bookForm

	books      []library.Book
	usage      []library.ShelfUsage
	totals     library.Totals
	facility   ports.FacilitySnapshot
	route      *ports.RouteResult
	showMap    bool
	lastUpdate time.Time

	pendingDelete library.Book
	status        string
	statusErr     bool
}

// updateMsg carries catalog state pushed from the app after a change.
type updateMsg struct {
	books  []library.Book
	usage  []library.ShelfUsage
	totals library.Totals
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		width := msg.Width - h
		height := msg.Height - v - 12
		if height < 5 {
			height = 5
		}
		m.bookList.SetSize(width, height)
		m.shelfTable.SetHeight(height)
		m.help.Width = width
	case updateMsg:
		// The update handler does not know the active search, so re-query.
		if strings.TrimSpace(m.search.Value()) != "" && m.svc != nil {
			m = m.refresh()
			return m, nil
		}
		m = m.applyCatalog(msg.books, msg.usage, msg.totals)
		return m, nil
	}

	var cmd tea.Cmd
	if m.mode == panelBooks {
		m.bookList, cmd = m.bookList.Update(msg)
	} else {
		m.shelfTable, cmd = m.shelfTable.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d books | %d shelves | capacity %d",
		m.lastUpdate.Format("15:04:05"), m.totals.Books, m.totals.Shelves, m.totals.Capacity))
	header := fmt.Sprintf("%s\n%s\n", titleStyle("Smart Library"), status)

	var body string
	switch m.mode {
	case panelShelves:
		body = m.shelfTable.View()
	default:
		body = m.bookList.View()
	}

	if m.route != nil {
		body += "\n\n" + routeStyle.Render(formatRoute(*m.route))
	}
	if m.showMap {
		var path []string
		if m.route != nil {
			path = m.route.Route.Nodes
		}
		body += "\n\n" + mapStyle.Render(renderFacilityMap(m.facility, path))
	}

	switch m.input {
	case inputSearch:
		body += "\n\n" + m.search.View()
	case inputForm:
		body += "\n\n" + m.form.View()
	case inputConfirmDelete:
		body += "\n\n" + errorStyle.Render(fmt.Sprintf("Delete %q from %s? (y/n)", m.pendingDelete.Title, m.pendingDelete.Shelf))
	}

	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		body += "\n\n" + style.Render(m.status)
	}

	return docStyle.Render(header + "\n" + m.help.View(m.keys) + "\n\n" + body)
}

func initialModel(svc ports.LibraryService) model {
	bookList := list.New([]list.Item{}, list.NewDefaultDelegate(), 60, 14)
	bookList.Title = "Catalog"
	bookList.SetShowStatusBar(false)
	bookList.SetFilteringEnabled(false)

	shelfTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Shelf", Width: 12},
			{Title: "Used", Width: 8},
			{Title: "State", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	search := textinput.New()
	search.Placeholder = "title, author or shelf"
	search.Prompt = "Search: "
	search.CharLimit = 120

	m := model{
		svc:        svc,
		keys:       defaultKeyMap(),
		help:       help.New(),
		bookList:   bookList,
		shelfTable: shelfTable,
		mode:       panelBooks,
		search:     search,
		lastUpdate: time.Now(),
	}
	if svc == nil {
		return m
	}
	if snap, err := svc.Facility(context.Background()); err == nil {
		m.facility = snap
	}
	return m.refresh()
}

// refresh re-reads the catalog through the service honoring the search box.
func (m model) refresh() model {
	if m.svc == nil {
		return m
	}
	ctx := context.Background()
	books, err := m.svc.Search(ctx, m.search.Value())
	if err != nil {
		return m.fail(err)
	}
	summary, err := m.svc.Usage(ctx)
	if err != nil {
		return m.fail(err)
	}
	return m.applyCatalog(books, summary.Usage, summary.Totals)
}

func (m model) applyCatalog(books []library.Book, usage []library.ShelfUsage, totals library.Totals) model {
	m.books = books
	m.usage = usage
	m.totals = totals
	m.lastUpdate = time.Now()

	items := make([]list.Item, 0, len(books))
	for _, b := range books {
		items = append(items, item{
			id:    b.ID,
			title: b.Title,
			desc:  fmt.Sprintf("%s · %s", b.Author, b.Shelf),
		})
	}
	m.bookList.SetItems(items)

	rows := make([]table.Row, 0, len(usage))
	for _, u := range usage {
		state := "ok"
		if u.Full() {
			state = "full"
		}
		rows = append(rows, table.Row{u.Shelf, fmt.Sprintf("%d/%d", u.Used, u.Capacity), state})
	}
	m.shelfTable.SetRows(rows)
	return m
}

func (m model) ok(format string, args ...any) model {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
	return m
}

func (m model) fail(err error) model {
	m.status = describeError(err)
	m.statusErr = true
	return m
}
