package embedding

import (
	"context"
	"fmt"
	"sync/atomic"

	"ontologykg/application/ports"
	"ontologykg/domain/core/entities"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/services"

	"go.uber.org/zap"
)

// Profile wraps the active ports.EmbeddingService behind an atomic
// pointer so an operator swap (local<->remote, or a model upgrade) never
// races with an in-flight Embed call. A swap that changes the producing
// model marks every existing embedding stale rather than trying to
// reconcile mixed-model vectors in place (spec.md §4.2).
type Profile struct {
	active atomic.Pointer[ports.EmbeddingService]
	store  ports.RelationalStore
	logger *zap.Logger
}

// NewProfile starts the wrapper pointed at initial.
func NewProfile(initial ports.EmbeddingService, store ports.RelationalStore, logger *zap.Logger) *Profile {
	p := &Profile{store: store, logger: logger}
	p.active.Store(&initial)
	return p
}

func (p *Profile) current() ports.EmbeddingService {
	return *p.active.Load()
}

func (p *Profile) Embed(ctx context.Context, text string) (ports.EmbeddingResult, error) {
	return p.current().Embed(ctx, text)
}

func (p *Profile) EmbedBatch(ctx context.Context, texts []string) ([]ports.EmbeddingResult, error) {
	return p.current().EmbedBatch(ctx, texts)
}

func (p *Profile) ActiveModel() string    { return p.current().ActiveModel() }
func (p *Profile) ActiveDimensions() int  { return p.current().ActiveDimensions() }

// Swap replaces the active embedding service. If the outgoing model
// differs from the incoming one, every embedding computed under the
// outgoing model is marked stale so downstream similarity comparisons
// (categorization, epistemic measurement) don't silently mix vector
// spaces (spec.md §4.2, §4.5).
func (p *Profile) Swap(ctx context.Context, next ports.EmbeddingService) error {
	previous := p.current()
	previousModel := previous.ActiveModel()

	p.active.Store(&next)

	if next.ActiveModel() == previousModel {
		return nil
	}
	if err := p.store.MarkEmbeddingsStale(ctx, previousModel); err != nil {
		return fmt.Errorf("marking embeddings stale after profile swap from %q: %w", previousModel, err)
	}
	p.logger.Info("embedding profile swapped",
		zap.String("previous_model", previousModel),
		zap.String("next_model", next.ActiveModel()),
		zap.Int("next_dimensions", next.ActiveDimensions()))
	return nil
}

// SeedBuiltinVocabTypes embeds and persists the 30 builtin relationship
// types on cold start. It is idempotent: CreateVocabTypeIfNotExists
// leaves an already-seeded row untouched by a concurrent second caller,
// and a vocab type whose embedding is already populated under the
// active model is skipped entirely. Once every builtin type is embedded
// it sets the store's initialization flag.
func SeedBuiltinVocabTypes(ctx context.Context, store ports.RelationalStore, svc ports.EmbeddingService, logger *zap.Logger) error {
	for _, seed := range services.BuiltinSeedDescriptors {
		vt, err := entities.NewBuiltinVocabType(seed.Name, seed.Description, seed.Category, seed.Direction)
		if err != nil {
			return fmt.Errorf("constructing builtin vocab type %q: %w", seed.Name, err)
		}

		existing, err := store.CreateVocabTypeIfNotExists(ctx, vt)
		if err != nil {
			return fmt.Errorf("seeding vocab type %q: %w", seed.Name, err)
		}

		if !existing.Embedding().IsZero() && !existing.Embedding().Stale && existing.Embedding().Model == svc.ActiveModel() {
			continue
		}

		result, err := svc.Embed(ctx, string(seed.Name)+": "+seed.Description)
		if err != nil {
			return fmt.Errorf("embedding builtin vocab type %q: %w", seed.Name, err)
		}
		existing.SetEmbedding(valueobjects.NewEmbedding(result.Vector, result.Model))

		if err := store.SaveVocabType(ctx, existing); err != nil {
			return fmt.Errorf("saving embedded vocab type %q: %w", seed.Name, err)
		}
		logger.Debug("seeded builtin vocab type embedding", zap.String("vocab_type", string(seed.Name)))
	}
	if err := store.SetInitialized(ctx); err != nil {
		return fmt.Errorf("setting initialization flag: %w", err)
	}
	return nil
}

var _ ports.EmbeddingService = (*Profile)(nil)
