package postgres

import (
	"context"
	"fmt"

	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// GraphStore is implemented over plain relational tables (graph.concepts,
// graph.sources, graph.instances, graph.edges) rather than a true Cypher
// engine — spec.md §9 calls this an acceptable approximation as long as
// relationship labels are never string-interpolated without passing
// valueobjects.IsValidIdentifier first. ExecuteCypher below accepts a
// caller-composed, already-parameterized SQL template for exactly that
// reason; callers resolve Cypher-shaped query intent into this template
// at the application layer, not here.
func (s *Store) ExecuteCypher(ctx context.Context, ontology string, query string, params map[string]any) ([]map[string]any, error) {
	named, args := s.bindNamedParams(query, params)
	rows, err := s.pool.SQLX.QueryxContext(ctx, named, args...)
	if err != nil {
		return nil, kgerrors.NewTransientIO("executing graph query", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, kgerrors.NewTransientIO("scanning graph query row", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// bindNamedParams rewrites :name placeholders into positional $N
// placeholders in declaration order via sqlx.Named + Rebind, so
// ExecuteCypher's callers can write queries against named params the way
// they would bind Cypher query parameters.
func (s *Store) bindNamedParams(query string, params map[string]any) (string, []any) {
	named, args, err := sqlx.Named(query, params)
	if err != nil {
		// No named placeholders in this query; pass it through unbound.
		return query, nil
	}
	return s.pool.SQLX.Rebind(named), args
}

type conceptRow struct {
	ID             string         `db:"id"`
	Ontology       string         `db:"ontology"`
	Label          string         `db:"label"`
	Description    string         `db:"description"`
	Embedding      []byte         `db:"embedding"`
	SearchTerms    pq.StringArray `db:"search_terms"`
	CreationMethod string         `db:"creation_method"`
	CreatedAtEpoch int64          `db:"created_at_epoch"`
	LastSeenEpoch  int64          `db:"last_seen_epoch"`
	SeenCount      int            `db:"seen_count"`
}

func (r conceptRow) toEntity() (*entities.Concept, error) {
	embedding, err := unmarshalEmbedding(r.Embedding)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructConcept(
		valueobjects.ConceptID(r.ID), r.Ontology, r.Label, r.Description, embedding, []string(r.SearchTerms),
		entities.CreationMethod(r.CreationMethod), r.CreatedAtEpoch, r.LastSeenEpoch, r.SeenCount,
	), nil
}

const conceptColumns = `id, ontology, label, description, embedding, search_terms, creation_method, created_at_epoch, last_seen_epoch, seen_count`

func (s *Store) listConceptsWhere(ctx context.Context, where string, args ...any) ([]*entities.Concept, error) {
	var rows []conceptRow
	query := fmt.Sprintf(`SELECT %s FROM graph.concepts WHERE %s ORDER BY id`, conceptColumns, where)
	if err := s.pool.SQLX.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, kgerrors.NewTransientIO("listing concepts", err)
	}
	out := make([]*entities.Concept, 0, len(rows))
	for _, row := range rows {
		c, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) FindConceptsByOntology(ctx context.Context, ontology string) ([]*entities.Concept, error) {
	return s.listConceptsWhere(ctx, `ontology = $1`, ontology)
}

func (s *Store) GetConceptNode(ctx context.Context, id valueobjects.ConceptID) (*entities.Concept, bool, error) {
	rows, err := s.listConceptsWhere(ctx, `id = $1`, id.String())
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// DeleteConceptNode deletes edges and instances touching id before the
// concept row itself, since both reference it without ON DELETE CASCADE.
func (s *Store) DeleteConceptNode(ctx context.Context, id valueobjects.ConceptID) error {
	tx, err := s.pool.SQLX.BeginTxx(ctx, nil)
	if err != nil {
		return kgerrors.NewTransientIO("beginning concept delete transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM graph.edges WHERE from_concept = $1 OR to_concept = $1`, id.String()); err != nil {
		return kgerrors.NewTransientIO("deleting edges for concept", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM graph.instances WHERE concept_id = $1`, id.String()); err != nil {
		return kgerrors.NewTransientIO("deleting instances for concept", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM graph.concepts WHERE id = $1`, id.String()); err != nil {
		return kgerrors.NewTransientIO("deleting concept", err)
	}
	if err := tx.Commit(); err != nil {
		return kgerrors.NewTransientIO("committing concept delete", err)
	}
	return nil
}

func (s *Store) UpsertConceptNode(ctx context.Context, c *entities.Concept) error {
	embedding, err := marshalEmbedding(c.Embedding())
	if err != nil {
		return err
	}
	_, err = s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO graph.concepts (id, ontology, label, description, embedding, search_terms, creation_method, created_at_epoch, last_seen_epoch, seen_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			description = EXCLUDED.description, embedding = EXCLUDED.embedding,
			last_seen_epoch = EXCLUDED.last_seen_epoch, seen_count = EXCLUDED.seen_count`,
		c.ID().String(), c.Ontology(), c.Label(), c.Description(), embedding, pq.Array(c.SearchTerms()),
		string(c.CreationMethod()), c.CreatedAtEpoch(), c.LastSeenEpoch(), c.SeenCount())
	if err != nil {
		return kgerrors.NewTransientIO("upserting concept node", err)
	}
	return nil
}

func (s *Store) UpsertSourceNode(ctx context.Context, src *entities.Source) error {
	embedding, err := marshalEmbedding(src.Embedding())
	if err != nil {
		return err
	}
	visual, err := marshalEmbedding(src.VisualEmbedding())
	if err != nil {
		return err
	}
	charStart, charEnd := src.CharOffsets()
	_, err = s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO graph.sources (id, document, chunk_index, full_text, content_type, embedding, visual_embedding, storage_key, content_hash, char_offset_start, char_offset_end, garage_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding, visual_embedding = EXCLUDED.visual_embedding,
			storage_key = EXCLUDED.storage_key, garage_key = EXCLUDED.garage_key`,
		src.ID().String(), src.Document(), src.ChunkIndex(), src.FullText(), string(src.ContentType()),
		embedding, visual, src.StorageKey(), src.ContentHash(), charStart, charEnd, src.GarageKey())
	if err != nil {
		return kgerrors.NewTransientIO("upserting source node", err)
	}
	return nil
}

// UpsertInstanceNode inserts an Instance, relying on a unique (quote,
// source_id) constraint for the MERGE-style dedup spec.md §3 requires.
func (s *Store) UpsertInstanceNode(ctx context.Context, i *entities.Instance) error {
	_, err := s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO graph.instances (id, concept_id, source_id, quote)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (quote, source_id) DO NOTHING`,
		i.ID().String(), i.ConceptID().String(), i.SourceID().String(), i.Quote())
	if err != nil {
		return kgerrors.NewTransientIO("upserting instance node", err)
	}
	return nil
}

func (s *Store) CreateRelationshipEdge(ctx context.Context, e *entities.RelationshipEdge) error {
	_, err := s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO graph.edges (from_concept, to_concept, vocab_type, confidence, source, created_at, job_id, document_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.FromConcept().String(), e.ToConcept().String(), e.VocabType().String(), e.Confidence().Value(),
		string(e.Source()), e.CreatedAt(), e.JobID().String(), e.DocumentID().String())
	if err != nil {
		return kgerrors.NewTransientIO("creating relationship edge", err)
	}
	return nil
}

// RewriteRelationshipLabel moves every edge labeled fromType onto toType,
// used by vocabulary merge (spec.md §4.3). Both labels are
// valueobjects.VocabTypeName, already validated against the identifier
// grammar at construction, so they are safe to bind as plain parameters.
func (s *Store) RewriteRelationshipLabel(ctx context.Context, fromType, toType valueobjects.VocabTypeName) (int, error) {
	res, err := s.pool.SQLX.ExecContext(ctx,
		`UPDATE graph.edges SET vocab_type = $2 WHERE vocab_type = $1`, fromType.String(), toType.String())
	if err != nil {
		return 0, kgerrors.NewTransientIO("rewriting relationship label", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, kgerrors.NewTransientIO("reading rewrite result", err)
	}
	return int(affected), nil
}

func (s *Store) FindIncomingEdges(ctx context.Context, conceptID valueobjects.ConceptID) ([]ports.Edge, error) {
	return s.queryEdges(ctx, `to_concept = $1`, conceptID.String())
}

func (s *Store) SampleEdgesByVocabType(ctx context.Context, vocabType valueobjects.VocabTypeName, limit int) ([]ports.Edge, error) {
	return s.queryEdges(ctx, fmt.Sprintf(`vocab_type = $1 ORDER BY random() LIMIT %d`, limit), vocabType.String())
}

func (s *Store) queryEdges(ctx context.Context, where string, args ...any) ([]ports.Edge, error) {
	var rows []struct {
		From       string  `db:"from_concept"`
		To         string  `db:"to_concept"`
		VocabType  string  `db:"vocab_type"`
		Confidence float64 `db:"confidence"`
	}
	query := fmt.Sprintf(`SELECT from_concept, to_concept, vocab_type, confidence FROM graph.edges WHERE %s`, where)
	if err := s.pool.SQLX.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, kgerrors.NewTransientIO("querying edges", err)
	}
	out := make([]ports.Edge, 0, len(rows))
	for _, r := range rows {
		out = append(out, ports.Edge{
			From:       valueobjects.ConceptID(r.From),
			To:         valueobjects.ConceptID(r.To),
			VocabType:  valueobjects.VocabTypeName(r.VocabType),
			Confidence: r.Confidence,
		})
	}
	return out, nil
}

func (s *Store) ListDistinctEdgeLabels(ctx context.Context) ([]valueobjects.VocabTypeName, error) {
	var names []string
	if err := s.pool.SQLX.SelectContext(ctx, &names, `SELECT DISTINCT vocab_type FROM graph.edges ORDER BY vocab_type`); err != nil {
		return nil, kgerrors.NewTransientIO("listing distinct edge labels", err)
	}
	out := make([]valueobjects.VocabTypeName, 0, len(names))
	for _, n := range names {
		out = append(out, valueobjects.VocabTypeName(n))
	}
	return out, nil
}

var _ ports.GraphStore = (*Store)(nil)
