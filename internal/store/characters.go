package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog"
)

const characterColumns = `id, name, side, description, birthdate, legends, featured, lead, details,
	homeworld_name, species_name, role, gender, birth_year`

const (
	factTrait        = "trait"
	factMoment       = "moment"
	factRelationship = "relationship"
	factFilm         = "film"
)

// Replace swaps the whole catalog for chars in one transaction and returns the
// number of characters stored.
func (s *Store) Replace(ctx context.Context, chars []catalog.Detail) (int, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM character_facts`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM characters`); err != nil {
			return err
		}
		for _, c := range chars {
			if err := insertCharacter(ctx, tx, c); err != nil {
				return fmt.Errorf("insert character %d: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("catalog replaced", zap.Int("count", len(chars)))
	return len(chars), nil
}

func insertCharacter(ctx context.Context, tx *sql.Tx, c catalog.Detail) error {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO characters(`+characterColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Side, c.Description, c.Birthdate, c.Legends, c.Featured, c.Lead, c.Details,
		c.HomeworldName, c.SpeciesName, c.Role, c.Gender, c.BirthYear)
	if err != nil {
		return err
	}
	facts := []struct {
		kind  string
		items []string
	}{
		{factTrait, c.Traits},
		{factMoment, c.Moments},
		{factRelationship, c.Relationships},
		{factFilm, c.Films},
	}
	for _, f := range facts {
		for i, body := range f.items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO character_facts(character_id, kind, position, body) VALUES (?, ?, ?, ?)`,
				c.ID, f.kind, i, body); err != nil {
				return err
			}
		}
	}
	return nil
}

// Count returns the number of stored characters.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&n)
	return n, err
}

// Search returns characters whose name contains text, case-insensitively.
// Blank text matches everything in id order; otherwise closer names come
// first.
func (s *Store) Search(ctx context.Context, text string) ([]catalog.Detail, error) {
	all, err := s.list(ctx, ``)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return all, nil
	}
	out := make([]catalog.Detail, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	Rank(q, out)
	return out, nil
}

// Featured returns the featured characters in id order.
func (s *Store) Featured(ctx context.Context) ([]catalog.Detail, error) {
	return s.list(ctx, `WHERE featured = 1`)
}

// Get returns catalog.ErrNotFound when id is unknown.
func (s *Store) Get(ctx context.Context, id int) (catalog.Detail, error) {
	out, err := s.list(ctx, `WHERE id = ?`, id)
	if err != nil {
		return catalog.Detail{}, err
	}
	if len(out) == 0 {
		return catalog.Detail{}, catalog.ErrNotFound
	}
	return out[0], nil
}

// Rank orders chars by edit distance between query and the lower-cased name,
// then by id.
func Rank(query string, chars []catalog.Detail) {
	dist := make(map[int]int, len(chars))
	for _, c := range chars {
		dist[c.ID] = levenshtein.ComputeDistance(query, strings.ToLower(c.Name))
	}
	sort.SliceStable(chars, func(i, j int) bool {
		di, dj := dist[chars[i].ID], dist[chars[j].ID]
		if di != dj {
			return di < dj
		}
		return chars[i].ID < chars[j].ID
	})
}

func (s *Store) list(ctx context.Context, where string, args ...any) ([]catalog.Detail, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []catalog.Detail{}
	index := map[int]int{}
	for rows.Next() {
		var c catalog.Detail
		if err := rows.Scan(&c.ID, &c.Name, &c.Side, &c.Description, &c.Birthdate, &c.Legends, &c.Featured,
			&c.Lead, &c.Details, &c.HomeworldName, &c.SpeciesName, &c.Role, &c.Gender, &c.BirthYear); err != nil {
			return nil, err
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := s.attachFacts(ctx, out, index, where, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// attachFacts loads the facts of the characters selected by where. The join
// reuses the character filter, so the query size does not grow with the
// catalog.
func (s *Store) attachFacts(ctx context.Context, chars []catalog.Detail, index map[int]int, where string, args ...any) error {
	rows, err := s.db.QueryContext(ctx, `
	SELECT f.character_id, f.kind, f.body FROM character_facts f
	JOIN characters ON characters.id = f.character_id `+where+`
	ORDER BY f.character_id, f.kind, f.position`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for i := range chars {
		chars[i].Traits = []string{}
		chars[i].Moments = []string{}
		chars[i].Relationships = []string{}
		chars[i].Films = []string{}
	}
	for rows.Next() {
		var (
			id         int
			kind, body string
		)
		if err := rows.Scan(&id, &kind, &body); err != nil {
			return err
		}
		i, ok := index[id]
		if !ok {
			// written by a Replace that landed between the two queries
			continue
		}
		c := &chars[i]
		switch kind {
		case factTrait:
			c.Traits = append(c.Traits, body)
		case factMoment:
			c.Moments = append(c.Moments, body)
		case factRelationship:
			c.Relationships = append(c.Relationships, body)
		case factFilm:
			c.Films = append(c.Films, body)
		default:
			return errors.New("unknown fact kind " + kind)
		}
	}
	return rows.Err()
}
