package coordinator

// Intent is a user request raised by a display component. Components never
// write the location themselves; they hand an Intent to Dispatch.
type Intent interface {
	intentName() string
}

// QueryChanged carries the search box text after every edit.
type QueryChanged struct {
	Text string
}

// CharacterSelected is raised by list and featured entries.
type CharacterSelected struct {
	ID int
}

// NavigateBack is raised by the profile's back action.
type NavigateBack struct{}

func (QueryChanged) intentName() string      { return "query-changed" }
func (CharacterSelected) intentName() string { return "character-selected" }
func (NavigateBack) intentName() string      { return "navigate-back" }
