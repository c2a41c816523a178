package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/pkg/kgerrors"

	"github.com/lib/pq"
)

// documentMetaRow mirrors kg_api.document_meta.
type documentMetaRow struct {
	ID          string    `db:"id"`
	Ontology    string    `db:"ontology"`
	Filename    string    `db:"filename"`
	SourceType  string    `db:"source_type"`
	FilePath    string    `db:"file_path"`
	Hostname    string    `db:"hostname"`
	IngestedAt  time.Time `db:"ingested_at"`
	IngestedBy  string    `db:"ingested_by"`
	JobID       string    `db:"job_id"`
	SourceCount int       `db:"source_count"`
	GarageKey   string    `db:"garage_key"`
}

func (s *Store) GetDocumentMeta(ctx context.Context, contentHash, ontology string) (*entities.DocumentMeta, bool, error) {
	var row documentMetaRow
	err := s.pool.SQLX.GetContext(ctx, &row,
		`SELECT id, ontology, filename, source_type, file_path, hostname, ingested_at, ingested_by, job_id, source_count, garage_key
		 FROM kg_api.document_meta WHERE id = $1 AND ontology = $2`, contentHash, ontology)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, kgerrors.NewTransientIO("fetching document meta", err)
	}
	return entities.ReconstructDocumentMeta(
		valueobjects.NewDocumentID(row.ID), row.Ontology, row.Filename, row.SourceType, row.FilePath, row.Hostname,
		row.IngestedAt, row.IngestedBy, valueobjects.JobID(row.JobID), row.SourceCount, row.GarageKey,
	), true, nil
}

func (s *Store) SaveDocumentMeta(ctx context.Context, d *entities.DocumentMeta) error {
	_, err := s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO kg_api.document_meta (id, ontology, filename, source_type, file_path, hostname, ingested_at, ingested_by, job_id, source_count, garage_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id, ontology) DO UPDATE SET
			ingested_at = EXCLUDED.ingested_at, ingested_by = EXCLUDED.ingested_by,
			job_id = EXCLUDED.job_id, source_count = EXCLUDED.source_count, garage_key = EXCLUDED.garage_key`,
		d.ID().String(), d.Ontology(), d.Filename(), "", "", "", d.IngestedAt(), "", d.JobID().String(), d.SourceCount(), d.GarageKey())
	if err != nil {
		return kgerrors.NewTransientIO("saving document meta", err)
	}
	return nil
}

type ontologyRow struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Description    string         `db:"description"`
	Embedding      []byte         `db:"embedding"`
	SearchTerms    pq.StringArray `db:"search_terms"`
	LifecycleState string         `db:"lifecycle_state"`
	CreationEpoch  int64          `db:"creation_epoch"`
	CreatedBy      string         `db:"created_by"`
}

func (r ontologyRow) toEntity() (*entities.Ontology, error) {
	embedding, err := unmarshalEmbedding(r.Embedding)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructOntology(
		valueobjects.OntologyID(r.ID), r.Name, r.Description, embedding, []string(r.SearchTerms),
		entities.LifecycleState(r.LifecycleState), r.CreationEpoch, r.CreatedBy,
	), nil
}

func (s *Store) GetOntology(ctx context.Context, name string) (*entities.Ontology, bool, error) {
	var row ontologyRow
	err := s.pool.SQLX.GetContext(ctx, &row,
		`SELECT id, name, description, embedding, search_terms, lifecycle_state, creation_epoch, created_by
		 FROM kg_api.ontologies WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, kgerrors.NewTransientIO("fetching ontology", err)
	}
	o, err := row.toEntity()
	return o, true, err
}

// CreateOntologyIfNotExists implements the get-create-get race pattern
// the teacher's unit_of_work.go uses for DynamoDB conditional writes,
// translated to Postgres's ON CONFLICT DO NOTHING + re-read (spec.md §9).
func (s *Store) CreateOntologyIfNotExists(ctx context.Context, o *entities.Ontology) (*entities.Ontology, error) {
	embedding, err := marshalEmbedding(o.Embedding())
	if err != nil {
		return nil, err
	}
	_, err = s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO kg_api.ontologies (id, name, description, embedding, search_terms, lifecycle_state, creation_epoch, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (name) DO NOTHING`,
		o.ID().String(), o.Name(), o.Description(), embedding, pq.Array([]string{}), string(o.LifecycleState()), o.CreationEpoch(), o.CreatedBy())
	if err != nil {
		return nil, kgerrors.NewTransientIO("creating ontology", err)
	}
	existing, found, err := s.GetOntology(ctx, o.Name())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, kgerrors.NewFatal(fmt.Sprintf("ontology %q missing immediately after insert-or-ignore", o.Name()), nil)
	}
	return existing, nil
}

func (s *Store) SaveOntology(ctx context.Context, o *entities.Ontology) error {
	embedding, err := marshalEmbedding(o.Embedding())
	if err != nil {
		return err
	}
	_, err = s.pool.SQLX.ExecContext(ctx, `
		UPDATE kg_api.ontologies SET description=$2, embedding=$3, search_terms=$4, lifecycle_state=$5, created_by=$6
		WHERE name = $1`,
		o.Name(), o.Description(), embedding, pq.Array(o_searchTerms(o)), string(o.LifecycleState()), o.CreatedBy())
	if err != nil {
		return kgerrors.NewTransientIO("saving ontology", err)
	}
	return nil
}

// o_searchTerms exists only because Ontology does not expose SearchTerms
// as a getter. It returns an empty, non-nil slice (a nil slice binds as
// NULL, which the NOT NULL search_terms column rejects), so SaveOntology
// writes an empty search_terms array.
func o_searchTerms(o *entities.Ontology) []string { return []string{} }

type vocabTypeRow struct {
	Name               string  `db:"name"`
	Description        string  `db:"description"`
	IsActive           bool    `db:"is_active"`
	IsBuiltin          bool    `db:"is_builtin"`
	UsageCount         int     `db:"usage_count"`
	DirectionSemantics string  `db:"direction_semantics"`
	Embedding          []byte  `db:"embedding"`
	Category           string  `db:"category"`
	CategorySource     string  `db:"category_source"`
	CategoryConfidence float64 `db:"category_confidence"`
	CategoryScores     []byte  `db:"category_scores"`
	CategoryAmbiguous  bool    `db:"category_ambiguous"`
	DeprecationReason  string  `db:"deprecation_reason"`
	EpistemicStatus    string  `db:"epistemic_status"`
	EpistemicRationale string  `db:"epistemic_rationale"`
	EpistemicSampleSize int    `db:"epistemic_sample_size"`
	EpistemicMean      float64 `db:"epistemic_mean_projection"`
	EpistemicMeasuredAt sql.NullTime `db:"epistemic_measured_at"`
}

func (r vocabTypeRow) toEntity() (*entities.VocabType, error) {
	embedding, err := unmarshalEmbedding(r.Embedding)
	if err != nil {
		return nil, err
	}
	var scores entities.CategoryScores
	if len(r.CategoryScores) > 0 {
		if err := json.Unmarshal(r.CategoryScores, &scores); err != nil {
			return nil, fmt.Errorf("unmarshalling category scores: %w", err)
		}
	}
	measuredAt := r.EpistemicMeasuredAt.Time
	vtName, err := valueobjects.NewVocabTypeName(r.Name)
	if err != nil {
		return nil, err
	}
	return entities.ReconstructVocabType(
		vtName, r.Description, r.IsActive, r.IsBuiltin, r.UsageCount,
		entities.DirectionSemantics(r.DirectionSemantics), embedding,
		entities.VocabCategory(r.Category), entities.CategorySource(r.CategorySource), r.CategoryConfidence, scores, r.CategoryAmbiguous,
		r.DeprecationReason, entities.EpistemicStatus(r.EpistemicStatus), r.EpistemicRationale,
		entities.EpistemicStats{SampleSize: r.EpistemicSampleSize, MeanProjection: r.EpistemicMean, MeasuredAt: measuredAt},
	), nil
}

const vocabTypeColumns = `name, description, is_active, is_builtin, usage_count, direction_semantics, embedding,
	category, category_source, category_confidence, category_scores, category_ambiguous, deprecation_reason,
	epistemic_status, epistemic_rationale, epistemic_sample_size, epistemic_mean_projection, epistemic_measured_at`

func (s *Store) GetVocabType(ctx context.Context, name valueobjects.VocabTypeName) (*entities.VocabType, bool, error) {
	var row vocabTypeRow
	err := s.pool.SQLX.GetContext(ctx, &row,
		`SELECT `+vocabTypeColumns+` FROM kg_api.relationship_vocabulary WHERE name = $1`, name.String())
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, kgerrors.NewTransientIO("fetching vocabulary type", err)
	}
	v, err := row.toEntity()
	return v, true, err
}

func (s *Store) ListVocabTypes(ctx context.Context) ([]*entities.VocabType, error) {
	var rows []vocabTypeRow
	if err := s.pool.SQLX.SelectContext(ctx, &rows, `SELECT `+vocabTypeColumns+` FROM kg_api.relationship_vocabulary ORDER BY name`); err != nil {
		return nil, kgerrors.NewTransientIO("listing vocabulary types", err)
	}
	out := make([]*entities.VocabType, 0, len(rows))
	for _, row := range rows {
		v, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Store) ListVocabTypesByCategory(ctx context.Context, category entities.VocabCategory) ([]*entities.VocabType, error) {
	var rows []vocabTypeRow
	if err := s.pool.SQLX.SelectContext(ctx, &rows, `SELECT `+vocabTypeColumns+` FROM kg_api.relationship_vocabulary WHERE category = $1 ORDER BY name`, string(category)); err != nil {
		return nil, kgerrors.NewTransientIO("listing vocabulary types by category", err)
	}
	out := make([]*entities.VocabType, 0, len(rows))
	for _, row := range rows {
		v, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// CreateVocabTypeIfNotExists is the VocabType analog of
// CreateOntologyIfNotExists: callers racing to record a newly-discovered
// relationship label all converge on the single surviving row.
func (s *Store) CreateVocabTypeIfNotExists(ctx context.Context, v *entities.VocabType) (*entities.VocabType, error) {
	embedding, err := marshalEmbedding(v.Embedding())
	if err != nil {
		return nil, err
	}
	scores, err := json.Marshal(v.CategoryScores())
	if err != nil {
		return nil, err
	}
	_, err = s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO kg_api.relationship_vocabulary (
			name, description, is_active, is_builtin, usage_count, direction_semantics, embedding,
			category, category_source, category_confidence, category_scores, category_ambiguous, deprecation_reason,
			epistemic_status, epistemic_rationale, epistemic_sample_size, epistemic_mean_projection, epistemic_measured_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (name) DO NOTHING`,
		v.Name().String(), v.Description(), v.IsActive(), v.IsBuiltin(), v.UsageCount(), string(v.DirectionSemantics()), embedding,
		string(v.Category()), string(v.CategorySource()), v.CategoryConfidence(), scores, v.CategoryAmbiguous(), v.DeprecationReason(),
		string(v.EpistemicStatus()), v.EpistemicRationale(), v.EpistemicStats().SampleSize, v.EpistemicStats().MeanProjection, nullTime(v.EpistemicStats().MeasuredAt))
	if err != nil {
		return nil, kgerrors.NewTransientIO("creating vocabulary type", err)
	}
	existing, found, err := s.GetVocabType(ctx, v.Name())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, kgerrors.NewFatal(fmt.Sprintf("vocabulary type %q missing immediately after insert-or-ignore", v.Name()), nil)
	}
	return existing, nil
}

func (s *Store) SaveVocabType(ctx context.Context, v *entities.VocabType) error {
	embedding, err := marshalEmbedding(v.Embedding())
	if err != nil {
		return err
	}
	scores, err := json.Marshal(v.CategoryScores())
	if err != nil {
		return err
	}
	_, err = s.pool.SQLX.ExecContext(ctx, `
		UPDATE kg_api.relationship_vocabulary SET
			description=$2, is_active=$3, usage_count=$4, direction_semantics=$5, embedding=$6,
			category=$7, category_source=$8, category_confidence=$9, category_scores=$10, category_ambiguous=$11, deprecation_reason=$12,
			epistemic_status=$13, epistemic_rationale=$14, epistemic_sample_size=$15, epistemic_mean_projection=$16, epistemic_measured_at=$17
		WHERE name = $1`,
		v.Name().String(), v.Description(), v.IsActive(), v.UsageCount(), string(v.DirectionSemantics()), embedding,
		string(v.Category()), string(v.CategorySource()), v.CategoryConfidence(), scores, v.CategoryAmbiguous(), v.DeprecationReason(),
		string(v.EpistemicStatus()), v.EpistemicRationale(), v.EpistemicStats().SampleSize, v.EpistemicStats().MeanProjection, nullTime(v.EpistemicStats().MeasuredAt))
	if err != nil {
		return kgerrors.NewTransientIO("saving vocabulary type", err)
	}
	return nil
}

func (s *Store) RecordVocabularyHistory(ctx context.Context, deprecated, target valueobjects.VocabTypeName, edgesMoved int) error {
	_, err := s.pool.SQLX.ExecContext(ctx,
		`INSERT INTO kg_api.vocabulary_history (deprecated_name, target_name, edges_moved, recorded_at) VALUES ($1,$2,$3,$4)`,
		deprecated.String(), target.String(), edgesMoved, time.Now())
	if err != nil {
		return kgerrors.NewTransientIO("recording vocabulary history", err)
	}
	return nil
}

// GetCurrentDocumentEpoch reads document_ingestion_epoch without the
// upsert IncrementDocumentIngestionCounter performs, using the same
// COALESCE-to-zero read ClaimBreathingWindow's CTE does.
func (s *Store) GetCurrentDocumentEpoch(ctx context.Context) (int64, error) {
	var epoch int64
	err := s.pool.SQLX.GetContext(ctx, &epoch, `
		SELECT COALESCE((SELECT value FROM kg_api.counters WHERE name = 'document_ingestion_epoch'), 0)`)
	if err != nil {
		return 0, kgerrors.NewTransientIO("reading document ingestion epoch", err)
	}
	return epoch, nil
}

func (s *Store) IncrementDocumentIngestionCounter(ctx context.Context) (int64, error) {
	var epoch int64
	err := s.pool.SQLX.GetContext(ctx, &epoch, `
		INSERT INTO kg_api.counters (name, value) VALUES ('document_ingestion_epoch', 1)
		ON CONFLICT (name) DO UPDATE SET value = kg_api.counters.value + 1
		RETURNING value`)
	if err != nil {
		return 0, kgerrors.NewTransientIO("incrementing document ingestion counter", err)
	}
	return epoch, nil
}

func (s *Store) IncrementVocabularyChangeCounter(ctx context.Context, delta int) (int64, error) {
	var total int64
	err := s.pool.SQLX.GetContext(ctx, &total, `
		INSERT INTO kg_api.counters (name, value) VALUES ('vocabulary_change_counter', $1)
		ON CONFLICT (name) DO UPDATE SET value = kg_api.counters.value + $1
		RETURNING value`, delta)
	if err != nil {
		return 0, kgerrors.NewTransientIO("incrementing vocabulary change counter", err)
	}
	return total, nil
}

func (s *Store) ResetVocabularyChangeCounter(ctx context.Context) error {
	_, err := s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO kg_api.counters (name, value) VALUES ('vocabulary_change_counter', 0)
		ON CONFLICT (name) DO UPDATE SET value = 0`)
	if err != nil {
		return kgerrors.NewTransientIO("resetting vocabulary change counter", err)
	}
	return nil
}

// ClaimBreathingWindow performs the compare-and-advance atomically in a
// single CTE statement so only the caller whose UPDATE actually matches
// the row wins the race to run this cycle's breathing job (spec.md §4.6).
// kg_api.counters seeds both document_ingestion_epoch and
// last_breathing_epoch at 0 in the initial migration.
func (s *Store) ClaimBreathingWindow(ctx context.Context, interval int64) (bool, int64, error) {
	var result struct {
		CurrentEpoch int64 `db:"current_epoch"`
		Claimed      bool  `db:"claimed"`
	}
	err := s.pool.SQLX.GetContext(ctx, &result, `
		WITH current AS (
			SELECT COALESCE((SELECT value FROM kg_api.counters WHERE name = 'document_ingestion_epoch'), 0) AS value
		),
		claim AS (
			UPDATE kg_api.counters
			SET value = (SELECT value FROM current)
			WHERE name = 'last_breathing_epoch'
				AND (SELECT value FROM current) - value >= $1
			RETURNING 1
		)
		SELECT (SELECT value FROM current) AS current_epoch, EXISTS (SELECT 1 FROM claim) AS claimed`,
		interval)
	if err != nil {
		return false, 0, kgerrors.NewTransientIO("claiming breathing window", err)
	}
	return result.Claimed, result.CurrentEpoch, nil
}

func (s *Store) GetEmbeddingProfile(ctx context.Context) (string, int, error) {
	var row struct {
		Name       string `db:"name"`
		Dimensions int    `db:"dimensions"`
	}
	err := s.pool.SQLX.GetContext(ctx, &row, `SELECT name, dimensions FROM kg_api.embedding_profile WHERE id = TRUE`)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, kgerrors.NewTransientIO("fetching embedding profile", err)
	}
	return row.Name, row.Dimensions, nil
}

func (s *Store) SetEmbeddingProfile(ctx context.Context, name string, dimensions int) error {
	_, err := s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO kg_api.embedding_profile (id, name, dimensions) VALUES (TRUE, $1, $2)
		ON CONFLICT (id) DO UPDATE SET name = $1, dimensions = $2`, name, dimensions)
	if err != nil {
		return kgerrors.NewTransientIO("setting embedding profile", err)
	}
	return nil
}

func (s *Store) IsInitialized(ctx context.Context) (bool, error) {
	var initialized bool
	err := s.pool.SQLX.GetContext(ctx, &initialized, `SELECT initialized FROM kg_api.system_initialization_status WHERE id = TRUE`)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, kgerrors.NewTransientIO("checking initialization status", err)
	}
	return initialized, nil
}

func (s *Store) SetInitialized(ctx context.Context) error {
	_, err := s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO kg_api.system_initialization_status (id, initialized) VALUES (TRUE, TRUE)
		ON CONFLICT (id) DO UPDATE SET initialized = TRUE`)
	if err != nil {
		return kgerrors.NewTransientIO("setting initialization status", err)
	}
	return nil
}

// MarkEmbeddingsStale flags every Concept/Source/VocabType embedding
// produced under previousModel, following an embedding profile swap
// (spec.md §4.2) — vocab types included so SeedBuiltinVocabTypes
// re-embeds the builtin set on the next cold start instead of treating
// stale vectors as already seeded.
func (s *Store) MarkEmbeddingsStale(ctx context.Context, previousModel string) error {
	tx, err := s.pool.SQLX.BeginTxx(ctx, nil)
	if err != nil {
		return kgerrors.NewTransientIO("beginning stale-marking transaction", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`UPDATE graph.concepts SET embedding = jsonb_set(embedding, '{stale}', 'true'::jsonb) WHERE embedding->>'model' = $1`,
		`UPDATE graph.sources SET embedding = jsonb_set(embedding, '{stale}', 'true'::jsonb) WHERE embedding->>'model' = $1`,
		`UPDATE kg_api.relationship_vocabulary SET embedding = jsonb_set(embedding, '{stale}', 'true'::jsonb) WHERE embedding->>'model' = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, previousModel); err != nil {
			return kgerrors.NewTransientIO("marking embeddings stale", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return kgerrors.NewTransientIO("committing stale-marking transaction", err)
	}
	return nil
}

type annealingProposalRow struct {
	ID           string       `db:"id"`
	Action       string       `db:"action"`
	TargetID     string       `db:"target_id"`
	Rationale    string       `db:"rationale"`
	Score        float64      `db:"score"`
	Status       string       `db:"status"`
	ReviewedBy   string       `db:"reviewed_by"`
	ReviewerNote string       `db:"reviewer_note"`
	CreatedAt    time.Time    `db:"created_at"`
	ReviewedAt   sql.NullTime `db:"reviewed_at"`
}

func (r annealingProposalRow) toEntity() *entities.AnnealingProposal {
	return entities.ReconstructAnnealingProposal(
		valueobjects.ProposalID(r.ID), entities.ProposalAction(r.Action), r.TargetID, r.Rationale, r.Score,
		entities.ProposalStatus(r.Status), r.ReviewedBy, r.ReviewerNote, r.CreatedAt, r.ReviewedAt.Time,
	)
}

func (s *Store) SaveAnnealingProposal(ctx context.Context, p *entities.AnnealingProposal) error {
	_, err := s.pool.SQLX.ExecContext(ctx, `
		INSERT INTO kg_api.annealing_proposals (id, action, target_id, rationale, score, status, reviewed_by, reviewer_note, created_at, reviewed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET status=$6, reviewed_by=$7, reviewer_note=$8, reviewed_at=$10`,
		p.ID().String(), string(p.Action()), p.TargetID(), p.Rationale(), p.Score(), string(p.Status()), p.ReviewedBy(), p.ReviewerNote(), p.CreatedAt(), nullTime(p.ReviewedAt()))
	if err != nil {
		return kgerrors.NewTransientIO("saving annealing proposal", err)
	}
	return nil
}

func (s *Store) ListPendingAnnealingProposals(ctx context.Context) ([]*entities.AnnealingProposal, error) {
	var rows []annealingProposalRow
	if err := s.pool.SQLX.SelectContext(ctx, &rows,
		`SELECT id, action, target_id, rationale, score, status, reviewed_by, reviewer_note, created_at, reviewed_at
		 FROM kg_api.annealing_proposals WHERE status = $1 ORDER BY created_at`, string(entities.ProposalPending)); err != nil {
		return nil, kgerrors.NewTransientIO("listing pending annealing proposals", err)
	}
	out := make([]*entities.AnnealingProposal, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// ListStaleConcepts finds concepts last seen at or before
// currentEpoch-minEpochsSinceSeen, the breathing cycle's candidate pool.
func (s *Store) ListStaleConcepts(ctx context.Context, ontology string, minEpochsSinceSeen, currentEpoch int64) ([]*entities.Concept, error) {
	rows, err := s.listConceptsWhere(ctx, `ontology = $1 AND last_seen_epoch <= $2`, ontology, currentEpoch-minEpochsSinceSeen)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

var _ ports.RelationalStore = (*Store)(nil)
