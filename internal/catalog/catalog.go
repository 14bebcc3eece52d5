// Package catalog defines the character records and the read-only gateway
// used to fetch them.
package catalog

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a character id does not exist.
	ErrNotFound = errors.New("character not found")
	// ErrMalformed is returned when a response does not have the expected shape.
	ErrMalformed = errors.New("malformed response")
)

const (
	SideLight = "light"
	SideDark  = "dark"

	unknown = "Unknown"
)

// Summary is the list form of a character.
type Summary struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Side        string `json:"side" yaml:"side"`
	Description string `json:"description" yaml:"description"`
	Birthdate   string `json:"birthdate" yaml:"birthdate"`
	Legends     bool   `json:"legends,omitempty" yaml:"legends,omitempty"`
}

// DisplayName appends the Legends marker when the entry is non-canon.
func (s Summary) DisplayName() string {
	if s.Legends {
		return s.Name + " (Legends)"
	}
	return s.Name
}

// IsDark reports whether the character belongs to the dark side. Anything
// other than "dark" is shown as light.
func (s Summary) IsDark() bool {
	return s.Side == SideDark
}

// Detail is the full profile record.
type Detail struct {
	Summary       `yaml:",inline"`
	Featured      bool     `json:"featured,omitempty" yaml:"featured,omitempty"`
	Lead          string   `json:"lead,omitempty" yaml:"lead,omitempty"`
	Details       string   `json:"details,omitempty" yaml:"details,omitempty"`
	Traits        []string `json:"traits" yaml:"traits"`
	Moments       []string `json:"moments" yaml:"moments"`
	Relationships []string `json:"relationships" yaml:"relationships"`
	Films         []string `json:"films" yaml:"films"`
	HomeworldName string   `json:"homeworldName,omitempty" yaml:"homeworldName,omitempty"`
	SpeciesName   string   `json:"speciesName,omitempty" yaml:"speciesName,omitempty"`
	Role          string   `json:"role,omitempty" yaml:"role,omitempty"`
	Gender        string   `json:"gender,omitempty" yaml:"gender,omitempty"`
	BirthYear     string   `json:"birthYear,omitempty" yaml:"birthYear,omitempty"`
}

// LeadParagraphs splits the lead text on newlines, dropping blank lines.
func (d Detail) LeadParagraphs() []string { return paragraphs(d.Lead) }

// DetailParagraphs splits the details text on newlines, dropping blank lines.
func (d Detail) DetailParagraphs() []string { return paragraphs(d.Details) }

// Pronoun picks the possessive used in profile headings.
func (d Detail) Pronoun() string {
	if d.Gender == "male" {
		return "His"
	}
	return "Her"
}

func (d Detail) Homeworld() string { return orUnknown(d.HomeworldName) }
func (d Detail) Species() string   { return orUnknown(d.SpeciesName) }
func (d Detail) RoleName() string  { return orUnknown(d.Role) }
func (d Detail) Born() string      { return orUnknown(d.BirthYear) }
func (d Detail) GenderName() string {
	return orUnknown(d.Gender)
}

// Gateway is the data provider contract.
type Gateway interface {
	// Search returns characters whose names match text. Blank text is passed
	// through; the provider decides what it means.
	Search(ctx context.Context, text string) ([]Summary, error)
	Featured(ctx context.Context) ([]Summary, error)
	// Character returns ErrNotFound for unknown ids.
	Character(ctx context.Context, id int) (Detail, error)
}

func paragraphs(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
