package commands

import (
	"context"
	"time"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	"ontologykg/domain/core/valueobjects"
	"ontologykg/domain/events"
	"ontologykg/pkg/kgerrors"
)

// MergeVocabTypeCommand rewrites every edge of the deprecated type onto
// the target type and deactivates the deprecated type (spec.md §4.3
// Merge).
type MergeVocabTypeCommand struct {
	Deprecated string `validate:"required"`
	Target     string `validate:"required"`
	Reason     string
}

func (MergeVocabTypeCommand) CommandName() string { return "merge_vocab_type" }

type MergeVocabTypeHandler struct {
	store    ports.Store
	registry *appevents.HandlerRegistry
}

func NewMergeVocabTypeHandler(store ports.Store, registry *appevents.HandlerRegistry) *MergeVocabTypeHandler {
	return &MergeVocabTypeHandler{store: store, registry: registry}
}

func (h *MergeVocabTypeHandler) Handle(ctx context.Context, c Command) error {
	cmd := c.(MergeVocabTypeCommand)

	deprecated, err := valueobjects.NewVocabTypeName(cmd.Deprecated)
	if err != nil {
		return kgerrors.Wrap(kgerrors.NewValidation(err.Error()), "merge deprecated type")
	}
	target, err := valueobjects.NewVocabTypeName(cmd.Target)
	if err != nil {
		return kgerrors.Wrap(kgerrors.NewValidation(err.Error()), "merge target type")
	}

	deprecatedType, found, err := h.store.GetVocabType(ctx, deprecated)
	if err != nil {
		return err
	}
	if !found {
		return kgerrors.NewSemanticConsistencyf("vocabulary type %q does not exist", deprecated)
	}
	if _, found, err := h.store.GetVocabType(ctx, target); err != nil {
		return err
	} else if !found {
		return kgerrors.NewSemanticConsistencyf("merge target %q does not exist", target)
	}

	// AGE-class graph engines cannot rename an edge label in place; this
	// must create-new-delete-old within a single transaction (spec.md §4.3).
	edgesMoved, err := h.store.RewriteRelationshipLabel(ctx, deprecated, target)
	if err != nil {
		return err
	}

	deprecatedType.Deprecate(cmd.Reason)
	if err := h.store.SaveVocabType(ctx, deprecatedType); err != nil {
		return err
	}
	if err := h.store.RecordVocabularyHistory(ctx, deprecated, target, edgesMoved); err != nil {
		return err
	}
	pending := append(deprecatedType.Events(), events.NewVocabTypeMerged(deprecated, target, edgesMoved, time.Now()))
	h.registry.DispatchAll(ctx, pending)
	return nil
}
