package tui

import (
	"context"
	"log"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/noelzubin/bear_search/opener"
	"github.com/noelzubin/bear_search/search"
	"github.com/noelzubin/bear_search/utils"
	"github.com/samber/lo"
)

var (
	ListStyle  = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).MarginLeft(2)
)

var whitespace = regexp.MustCompile(`\s{2,}|\t+`)

// Main app model for bubbletea
type Model struct {
	width     int                  // width of terminal
	height    int                  // height of terminal
	preview   *viewport.Model      // the note preview, nil when closed
	list      list.Model           // the list widget model
	textInput textinput.Model      // the input search widget model
	searcher  search.NotesSearcher // looks up the notes for the input
	opener    opener.Opener        // for opening notes in Bear.
	config    *utils.Config
	err       error // error of the last search
}

// Create a new model for the app
func New(searcher search.NotesSearcher, config *utils.Config, initial string) *Model {
	ti := createTextInput()
	ti.SetValue(initial)

	return &Model{
		list:      createListModel(),
		textInput: ti,
		searcher:  searcher,
		opener:    opener.Opener{OpenCmd: config.OpenCommand, Scheme: config.URLScheme},
		config:    config,
	}
}

// Run starts the terminal UI and blocks until it quits.
func Run(searcher search.NotesSearcher, config *utils.Config, initial string) error {
	// Setup logging.
	if err := os.MkdirAll(utils.ConfigDir(), 0o700); err != nil {
		return err
	}
	f, err := tea.LogToFile(path.Join(utils.ConfigDir(), "debug.log"), "debug")
	if err != nil {
		return err
	}
	defer f.Close()

	p := tea.NewProgram(New(searcher, config, initial))
	_, err = p.Run()
	return err
}

func (m *Model) setListSize() {
	width := m.width
	height := m.height

	// If preview is open take half width
	if m.preview != nil {
		width = m.width / 2
	}

	m.list.SetSize(width, height-2)
}

func (m *Model) setPreviewSize() {
	if m.preview != nil {
		m.preview.Width = m.width / 2
		m.preview.Height = m.height
	}
}

func (m *Model) updateSize(width, height int) {
	m.height = height
	m.width = width

	m.setListSize()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.search(m.textInput.Value()))
}

// search returns a command that delivers the hits for q as a ResultMsg.
func (m Model) search(q string) tea.Cmd {
	searcher := m.searcher
	return func() tea.Msg {
		return ResultMsg{Query: q, SearchResult: searcher.Search(context.Background(), q)}
	}
}

func (m Model) selected() (Note, bool) {
	note, ok := m.list.SelectedItem().(Note)
	return note, ok
}

// Formats the content of the note
// replaces newlines and collapses whitespace.
func formatContent(content string) string {
	s := stripansi.Strip(content)
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", " ↵ ")
	return whitespace.ReplaceAllString(s, " ")
}

// renders the note body as markdown for the preview.
func renderMarkdown(body string, width int) string {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		log.Print(err)
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		log.Print(err)
		return body
	}
	return out
}

// The update fn for the bubbletea model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ResultMsg:
		// results of an older input
		if msg.Query != m.textInput.Value() {
			return m, nil
		}
		m.err = msg.Err
		if msg.Err != nil {
			log.Print(msg.Err)
		}
		cmds = append(cmds, m.list.SetItems(lo.Map(msg.Hits, func(hit search.DocumentMatch, _ int) list.Item {
			return Note{id: hit.ID, title: hit.Title, content: formatContent(hit.Snippet), body: hit.Body}
		})))
	case tea.KeyMsg:
		// Keybindings:
		// Tab - move down in the list
		// Shift+Tab - move up in the list
		// Enter - preview the selected note
		// Esc - close preview
		// Ctrl+K - Preview line up
		// Ctrl+J - Preview line down
		// Ctrl+O - Open the note in Bear
		// Ctrl+C - quit the application
		switch msg.String() {
		case "tab":
			m.list.CursorDown()
		case "shift+tab":
			m.list.CursorUp()
		case "enter":
			if note, ok := m.selected(); ok {
				vp := viewport.New(m.width/2, m.height)
				vp.SetContent(renderMarkdown(note.body, m.width/2))
				m.preview = &vp
			}
		case "esc":
			m.preview = nil
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+k":
			if m.preview != nil {
				m.preview.LineUp(5)
			}
		case "ctrl+j":
			if m.preview != nil {
				m.preview.LineDown(5)
			}
		case "ctrl+o":
			if note, ok := m.selected(); ok {
				cmds = append(cmds, m.opener.OpenNote(note.id))
			}
		}
	case opener.OpenFinished:
		if msg.Err != nil {
			log.Printf("open %s: %v", msg.Link, msg.Err)
		}
	case tea.WindowSizeMsg:
		m.updateSize(msg.Width, msg.Height)
	}

	// Update the widgets sizes
	m.setListSize()
	m.setPreviewSize()

	// save to compare if changed
	oldValue := m.textInput.Value()

	// pass on message to the other components
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	m.opener, cmd = m.opener.Update(msg)
	cmds = append(cmds, cmd)

	if m.preview != nil {
		var newPreview viewport.Model
		newPreview, cmd = m.preview.Update(msg)
		cmds = append(cmds, cmd)
		m.preview = &newPreview
	}

	// If input has changed, search for the new value
	newValue := m.textInput.Value()
	if oldValue != newValue {
		cmds = append(cmds, m.search(newValue))
	}

	return m, tea.Batch(cmds...)
}

// This is emitted when a search finishes
type ResultMsg struct {
	Query string
	search.SearchResult
}

// View fn for bubbletea model
func (m Model) View() string {
	listContent := ListStyle.Render(m.list.View())

	// render list
	innerContent := listContent

	// if preview then preview takes up half the width
	if m.preview != nil {
		innerContent = lipgloss.JoinHorizontal(lipgloss.Left,
			listContent,      // render list
			m.preview.View(), // render preview.
		)
	}

	header := m.textInput.View()
	if m.err != nil {
		header = lipgloss.JoinVertical(lipgloss.Left, header, ErrorStyle.Render(m.err.Error()))
	}

	// render the input box and the content
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,       // render the text input
		innerContent, // render the main content
	)
}

// Note implements list.Item interface
type Note struct {
	id      string
	title   string
	content string
	body    string
}

func (n Note) Title() string       { return n.title }
func (n Note) Description() string { return n.content }
func (n Note) FilterValue() string { return "" }

// Create the list model
func createListModel() list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.Styles.NoItems = l.Styles.NoItems.Copy().PaddingLeft(2)
	return l
}

// Create the text input model
func createTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "query"
	ti.Prompt = "Search:"
	ti.PromptStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		MarginRight(1).
		MarginLeft(2).
		Padding(0, 1)
	ti.Focus()
	return ti
}
