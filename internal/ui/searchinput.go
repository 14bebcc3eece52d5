package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/starfolk/internal/coordinator"
)

// SearchInput owns the query text box. It knows nothing about routes: each
// edit is reported as a QueryChanged intent.
type SearchInput struct {
	input textinput.Model
}

func NewSearchInput() SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Search for Star Wars characters..."
	ti.Prompt = "⌕ "
	ti.CharLimit = 120
	return SearchInput{input: ti}
}

func (s *SearchInput) Focus() tea.Cmd { return s.input.Focus() }
func (s *SearchInput) Blur()          { s.input.Blur() }
func (s SearchInput) Value() string   { return s.input.Value() }

func (s *SearchInput) SetWidth(w int) {
	s.input.Width = max(10, w-lenRunes(s.input.Prompt)-1)
}

// Update feeds msg to the text box and returns an intent when the text changed.
func (s *SearchInput) Update(msg tea.Msg) (coordinator.Intent, tea.Cmd) {
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if after := s.input.Value(); after != before {
		return coordinator.QueryChanged{Text: after}, cmd
	}
	return nil, cmd
}

func (s SearchInput) View() string {
	return s.input.View()
}

func lenRunes(s string) int {
	return len([]rune(s))
}
