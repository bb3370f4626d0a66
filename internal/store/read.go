package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/veldt/sparqlet/internal/rdf"
)

// LoadDataset reads the stored content back into a dataset. Triples load
// in the order they were saved, so evaluation over a reloaded dataset is
// deterministic.
func (s *Store) LoadDataset(ctx context.Context) (*rdf.Dataset, error) {
	d := rdf.NewDataset()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM graphs WHERE name != '' ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("load dataset: query graphs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("load dataset: scan graph: %w", err)
		}
		d.CreateGraph(name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load dataset: iterate graphs: %w", err)
	}

	triples, err := s.db.QueryContext(ctx, `
		SELECT graph_name, subject_kind, subject, predicate,
		       object_kind, object, object_lang, object_datatype
		FROM triples
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load dataset: query triples: %w", err)
	}
	defer triples.Close()

	for triples.Next() {
		var graphName string
		var row tripleRow
		if err := triples.Scan(
			&graphName,
			&row.subjectKind, &row.subject,
			&row.predicate,
			&row.objectKind, &row.object, &row.objectLang, &row.objectDatatype,
		); err != nil {
			return nil, fmt.Errorf("load dataset: scan triple: %w", err)
		}
		t, err := decodeTriple(row)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		target := d.Default()
		if graphName != "" {
			target = d.CreateGraph(graphName)
		}
		target.Add(t)
	}
	if err := triples.Err(); err != nil {
		return nil, fmt.Errorf("load dataset: iterate triples: %w", err)
	}

	return d, nil
}

// LoadGraph reads one stored graph. The boolean reports whether the graph
// row exists; a stored graph with no triples loads empty, not missing.
func (s *Store) LoadGraph(ctx context.Context, name string) (*rdf.Graph, bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM graphs WHERE name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load graph %q: %w", name, err)
	}

	g := rdf.NewGraph(name)
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_kind, subject, predicate,
		       object_kind, object, object_lang, object_datatype
		FROM triples
		WHERE graph_name = ?
		ORDER BY id ASC
	`, name)
	if err != nil {
		return nil, false, fmt.Errorf("load graph %q: query triples: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row tripleRow
		if err := rows.Scan(
			&row.subjectKind, &row.subject,
			&row.predicate,
			&row.objectKind, &row.object, &row.objectLang, &row.objectDatatype,
		); err != nil {
			return nil, false, fmt.Errorf("load graph %q: scan triple: %w", name, err)
		}
		t, err := decodeTriple(row)
		if err != nil {
			return nil, false, fmt.Errorf("load graph %q: %w", name, err)
		}
		g.Add(t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("load graph %q: iterate triples: %w", name, err)
	}

	return g, true, nil
}

func decodeTriple(row tripleRow) (rdf.Triple, error) {
	var s, o rdf.Term

	switch row.subjectKind {
	case kindIRI:
		s = rdf.NewIRI(row.subject)
	case kindBlank:
		s = rdf.NewBlankNode(row.subject)
	default:
		return rdf.Triple{}, fmt.Errorf("decode triple: unknown subject kind %q", row.subjectKind)
	}

	switch row.objectKind {
	case kindIRI:
		o = rdf.NewIRI(row.object)
	case kindBlank:
		o = rdf.NewBlankNode(row.object)
	case kindLiteral:
		switch {
		case row.objectLang != "":
			o = rdf.NewLangLiteral(row.object, row.objectLang)
		case row.objectDatatype != "":
			o = rdf.NewTypedLiteral(row.object, rdf.NewIRI(row.objectDatatype))
		default:
			o = rdf.NewLiteral(row.object)
		}
	default:
		return rdf.Triple{}, fmt.Errorf("decode triple: unknown object kind %q", row.objectKind)
	}

	return rdf.NewTriple(s, rdf.NewIRI(row.predicate), o)
}
