package embedding

import (
	"context"
	"testing"

	"ontologykg/domain/services"
	"ontologykg/infrastructure/persistence/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProfile_EmbedDelegatesToActiveService(t *testing.T) {
	store := memory.New()
	svc := NewLocal("local-minilm", 16, 4, zap.NewNop())
	p := NewProfile(svc, store, zap.NewNop())

	result, err := p.Embed(context.Background(), "causes")
	require.NoError(t, err)
	require.Equal(t, "local-minilm", result.Model)
	require.Len(t, result.Vector, 16)
	require.Equal(t, "local-minilm", p.ActiveModel())
	require.Equal(t, 16, p.ActiveDimensions())
}

func TestProfile_SwapToSameModelDoesNotMarkStale(t *testing.T) {
	store := memory.New()
	first := NewLocal("local-minilm", 16, 4, zap.NewNop())
	p := NewProfile(first, store, zap.NewNop())
	require.NoError(t, SeedBuiltinVocabTypes(context.Background(), store, p, zap.NewNop()))

	second := NewLocal("local-minilm", 16, 4, zap.NewNop())
	err := p.Swap(context.Background(), second)
	require.NoError(t, err)
	require.Equal(t, "local-minilm", p.ActiveModel())

	vt, found, err := store.GetVocabType(context.Background(), services.BuiltinSeedDescriptors[0].Name)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, vt.Embedding().Stale)
}

func TestProfile_SwapToDifferentModelMarksEmbeddingsStale(t *testing.T) {
	store := memory.New()
	first := NewLocal("local-minilm", 16, 4, zap.NewNop())
	p := NewProfile(first, store, zap.NewNop())

	require.NoError(t, SeedBuiltinVocabTypes(context.Background(), store, p, zap.NewNop()))
	vt, found, err := store.GetVocabType(context.Background(), services.BuiltinSeedDescriptors[0].Name)
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, vt.Embedding().Stale)

	remote := NewRemote("https://embeddings.example.com", "test-key", "remote-e5-large", 32)
	err = p.Swap(context.Background(), remote)
	require.NoError(t, err)
	require.Equal(t, "remote-e5-large", p.ActiveModel())

	vt, found, err = store.GetVocabType(context.Background(), services.BuiltinSeedDescriptors[0].Name)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, vt.Embedding().Stale)
}

func TestSeedBuiltinVocabTypes_CreatesEveryBuiltinType(t *testing.T) {
	store := memory.New()
	svc := NewLocal("local-minilm", 16, 4, zap.NewNop())

	require.NoError(t, SeedBuiltinVocabTypes(context.Background(), store, svc, zap.NewNop()))

	all, err := store.ListVocabTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, all, len(services.BuiltinSeedDescriptors))
	for _, vt := range all {
		require.False(t, vt.Embedding().IsZero())
		require.Equal(t, "local-minilm", vt.Embedding().Model)
	}
}

func TestSeedBuiltinVocabTypes_SkipsAlreadyEmbeddedUnderActiveModel(t *testing.T) {
	store := memory.New()
	svc := NewLocal("local-minilm", 16, 4, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, SeedBuiltinVocabTypes(ctx, store, svc, zap.NewNop()))
	before, _, err := store.GetVocabType(ctx, services.BuiltinSeedDescriptors[0].Name)
	require.NoError(t, err)
	beforeVector := before.Embedding().Vector

	require.NoError(t, SeedBuiltinVocabTypes(ctx, store, svc, zap.NewNop()))
	after, _, err := store.GetVocabType(ctx, services.BuiltinSeedDescriptors[0].Name)
	require.NoError(t, err)

	require.Equal(t, beforeVector, after.Embedding().Vector)
}
