package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyBatch = errors.New("no representatives to merge")

type Geography struct {
	ID    int64  `json:"id"`
	ZIP   string `json:"zip"`
	City  string `json:"city"`
	State string `json:"state"`
}

// Representative is a merge candidate. Identity is (Name, Title, Office);
// Level only goes on the geography link.
type Representative struct {
	Name   string
	Title  string
	Office string
	Party  string
	Branch string
	Level  string
}

type LinkedRepresentative struct {
	ID     int64  `json:"-"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	Office string `json:"office"`
	Party  string `json:"party"`
	Branch string `json:"branch"`
	Level  string `json:"level"`
}

// DisplayTitle is "Title, Office" when an office is set.
func (r LinkedRepresentative) DisplayTitle() string {
	if strings.TrimSpace(r.Office) == "" {
		return r.Title
	}
	return r.Title + ", " + r.Office
}

type MergeResult struct {
	GeographyID int64
	Created     int
	Reused      int
	Links       int
}

// MergeRepresentatives replaces everything known about zip in one
// transaction: the geography row is upserted, its links are dropped and
// rebuilt, and representatives are reused by (name, title, office) or
// created. Representative rows are never deleted. On any error nothing is
// written.
func (s *Store) MergeRepresentatives(ctx context.Context, zip, city, state string, reps []Representative) (MergeResult, error) {
	var res MergeResult
	if len(reps) == 0 {
		return res, ErrEmptyBatch
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		geoID, err := s.upsertGeography(ctx, tx, zip, city, state)
		if err != nil {
			return err
		}
		res.GeographyID = geoID

		if _, err := tx.ExecContext(ctx, s.rebind(`
DELETE FROM rep_geography_map WHERE geography_id = ?
`), geoID); err != nil {
			return fmt.Errorf("clear links failed: %w", err)
		}

		type linkKey struct {
			repID int64
			level string
		}
		linked := make(map[linkKey]struct{})

		for _, rep := range reps {
			repID, created, err := s.findOrCreateRepresentative(ctx, tx, rep)
			if err != nil {
				return err
			}
			if created {
				res.Created++
			} else {
				res.Reused++
			}

			level := rep.Level
			if level == "" {
				level = "federal"
			}
			key := linkKey{repID: repID, level: level}
			if _, ok := linked[key]; ok {
				continue
			}
			linked[key] = struct{}{}

			if _, err := tx.ExecContext(ctx, s.rebind(`
INSERT INTO rep_geography_map (geography_id, representative_id, level)
VALUES (?, ?, ?)
`), geoID, repID, level); err != nil {
				return fmt.Errorf("insert link failed: %w", err)
			}
			res.Links++
		}
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}
	return res, nil
}

func (s *Store) upsertGeography(ctx context.Context, tx *sql.Tx, zip, city, state string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, s.rebind(`
INSERT INTO geography (zip, city, state)
VALUES (?, ?, ?)
ON CONFLICT (zip) DO UPDATE SET
    city = EXCLUDED.city,
    state = EXCLUDED.state
RETURNING id
`), zip, city, state).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert geography failed: %w", err)
	}
	return id, nil
}

func (s *Store) findOrCreateRepresentative(ctx context.Context, tx *sql.Tx, rep Representative) (int64, bool, error) {
	var id int64
	err := tx.QueryRowContext(ctx, s.rebind(`
SELECT id FROM representatives
WHERE name = ? AND title = ? AND office = ?
`), rep.Name, rep.Title, rep.Office).Scan(&id)
	switch {
	case err == nil:
		return id, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("lookup representative failed: %w", err)
	}

	branch := rep.Branch
	if branch == "" {
		branch = "federal"
	}
	err = tx.QueryRowContext(ctx, s.rebind(`
INSERT INTO representatives (name, title, office, party, branch)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`), rep.Name, rep.Title, rep.Office, rep.Party, branch).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("insert representative failed: %w", err)
	}
	return id, true, nil
}

func (s *Store) GetGeography(ctx context.Context, zip string) (Geography, error) {
	var g Geography
	err := s.db.QueryRowContext(ctx, s.rebind(`
SELECT id, zip, city, state FROM geography WHERE zip = ?
`), zip).Scan(&g.ID, &g.ZIP, &g.City, &g.State)
	if errors.Is(err, sql.ErrNoRows) {
		return Geography{}, ErrNotFound
	}
	if err != nil {
		return Geography{}, err
	}
	return g, nil
}

// ListRepresentatives returns the representatives linked to a geography,
// optionally only those linked at level, ordered by branch then title.
func (s *Store) ListRepresentatives(ctx context.Context, geographyID int64, level string) ([]LinkedRepresentative, error) {
	query := `
SELECT r.id, r.name, r.title, r.office, r.party, r.branch, m.level
FROM representatives r
JOIN rep_geography_map m ON r.id = m.representative_id
WHERE m.geography_id = ?
`
	args := []any{geographyID}
	if level != "" {
		query += "AND m.level = ?\n"
		args = append(args, level)
	}
	query += "ORDER BY r.branch, r.title, r.name\n"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []LinkedRepresentative
	for rows.Next() {
		var r LinkedRepresentative
		if err := rows.Scan(&r.ID, &r.Name, &r.Title, &r.Office, &r.Party, &r.Branch, &r.Level); err != nil {
			return nil, err
		}
		reps = append(reps, r)
	}
	return reps, rows.Err()
}
