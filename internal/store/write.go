package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/veldt/sparqlet/internal/rdf"
)

// SaveDataset replaces the stored content with the given dataset in a
// single transaction. A failed save leaves the previous content intact.
func (s *Store) SaveDataset(ctx context.Context, d *rdf.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save dataset: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, "DELETE FROM graphs"); err != nil {
		return fmt.Errorf("save dataset: clear: %w", err)
	}

	if err := saveGraphTx(ctx, tx, "", d.Default()); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	for _, name := range d.Names() {
		g, ok := d.Graph(name)
		if !ok {
			continue
		}
		if err := saveGraphTx(ctx, tx, name, g); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save dataset: commit: %w", err)
	}
	return nil
}

// SaveGraph replaces one stored graph. The empty name addresses the
// default graph.
func (s *Store) SaveGraph(ctx context.Context, name string, g *rdf.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save graph %q: begin tx: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM graphs WHERE name = ?", name); err != nil {
		return fmt.Errorf("save graph %q: clear: %w", name, err)
	}
	if err := saveGraphTx(ctx, tx, name, g); err != nil {
		return fmt.Errorf("save graph %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save graph %q: commit: %w", name, err)
	}
	return nil
}

func saveGraphTx(ctx context.Context, tx *sql.Tx, name string, g *rdf.Graph) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO graphs (name) VALUES (?)
		ON CONFLICT(name) DO NOTHING
	`, name); err != nil {
		return fmt.Errorf("insert graph row: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO triples
		(graph_name, subject_kind, subject, predicate,
		 object_kind, object, object_lang, object_datatype)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare triple insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range g.Triples() {
		row, err := encodeTriple(t)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			name,
			row.subjectKind, row.subject,
			row.predicate,
			row.objectKind, row.object, row.objectLang, row.objectDatatype,
		); err != nil {
			return fmt.Errorf("insert triple: %w", err)
		}
	}
	return nil
}

// tripleRow is the flattened column form of a triple.
type tripleRow struct {
	subjectKind    string
	subject        string
	predicate      string
	objectKind     string
	object         string
	objectLang     string
	objectDatatype string
}

const (
	kindIRI     = "iri"
	kindBlank   = "bnode"
	kindLiteral = "literal"
)

func encodeTriple(t rdf.Triple) (tripleRow, error) {
	var row tripleRow

	switch s := t.Subject.(type) {
	case rdf.IRI:
		row.subjectKind, row.subject = kindIRI, s.Value
	case rdf.BlankNode:
		row.subjectKind, row.subject = kindBlank, s.ID
	default:
		return row, fmt.Errorf("encode triple: unsupported subject %T", t.Subject)
	}

	p, ok := t.Predicate.(rdf.IRI)
	if !ok {
		return row, fmt.Errorf("encode triple: unsupported predicate %T", t.Predicate)
	}
	row.predicate = p.Value

	switch o := t.Object.(type) {
	case rdf.IRI:
		row.objectKind, row.object = kindIRI, o.Value
	case rdf.BlankNode:
		row.objectKind, row.object = kindBlank, o.ID
	case rdf.Literal:
		row.objectKind, row.object = kindLiteral, o.Value
		row.objectLang = o.Language
		row.objectDatatype = o.Datatype.Value
	default:
		return row, fmt.Errorf("encode triple: unsupported object %T", t.Object)
	}

	return row, nil
}
