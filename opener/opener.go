package opener

import (
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noelzubin/bear_search/output"
)

// Opener opens notes in Bear by handing their deep link to a command.
type Opener struct {
	Opening bool   // Is a note being opened
	OpenCmd string // Command that opens a deep link, e.g. open
	Scheme  string // Scheme of the deep link, e.g. bear
}

// Msg for when the open command has exited.
type OpenFinished struct {
	ID   string // note that was opened
	Link string
	Err  error
}

// this runs the open command for the link.
func openLink(app, id, link string) tea.Cmd {
	return tea.ExecProcess(exec.Command(app, link), func(err error) tea.Msg {
		return OpenFinished{ID: id, Link: link, Err: err}
	})
}

func (m *Opener) Init() tea.Cmd {
	return nil
}

// Link returns the deep link for the note.
func (m Opener) Link(id string) string {
	return output.NoteURL(m.Scheme, id)
}

// OpenNote opens the note with the given id. It returns nil while another
// note is still being opened or when id is empty.
func (m *Opener) OpenNote(id string) tea.Cmd {
	if m.Opening || id == "" {
		return nil
	}
	m.Opening = true
	return openLink(m.OpenCmd, id, m.Link(id))
}

func (m Opener) Update(msg tea.Msg) (Opener, tea.Cmd) {
	switch msg.(type) {
	case OpenFinished:
		m.Opening = false
		return m, nil
	}

	return m, nil
}

// Doesnt render anything
func (m Opener) View() string {
	return ""
}
