package llm

import (
	"context"
	"testing"

	"ontologykg/application/ports"
	"ontologykg/infrastructure/config"

	"github.com/stretchr/testify/require"
)

func TestMock_ExtractConcepts_DerivesLabelFromFirstWord(t *testing.T) {
	m := NewMock()
	result, err := m.ExtractConcepts(context.Background(), ports.ExtractionContext{
		ChunkText: "Photosynthesis converts sunlight into chemical energy.",
	})
	require.NoError(t, err)
	require.Len(t, result.Concepts, 1)
	require.Equal(t, "PHOTOSYNTHESIS", result.Concepts[0].Label)
	require.Len(t, result.Instances, 1)
	require.Empty(t, result.Relationships)
}

func TestMock_ExtractConcepts_EmptyChunkReturnsEmptyResult(t *testing.T) {
	m := NewMock()
	result, err := m.ExtractConcepts(context.Background(), ports.ExtractionContext{ChunkText: "   "})
	require.NoError(t, err)
	require.Empty(t, result.Concepts)
}

func TestMock_ExtractConcepts_LinksToLastSeenConcept(t *testing.T) {
	m := NewMock()
	result, err := m.ExtractConcepts(context.Background(), ports.ExtractionContext{
		ChunkText:    "Chlorophyll absorbs light in the blue and red wavelengths.",
		SeenConcepts: []string{"PHOTOSYNTHESIS", "SUNLIGHT"},
	})
	require.NoError(t, err)
	require.Len(t, result.Relationships, 1)
	require.Equal(t, "SUNLIGHT", result.Relationships[0].FromLabel)
	require.Equal(t, "CHLOROPHYLL", result.Relationships[0].ToLabel)
}

func TestMock_JudgeProposalAlwaysApproves(t *testing.T) {
	m := NewMock()
	approve, err := m.JudgeProposal(context.Background(), "promote CAUSES to a parent category")
	require.NoError(t, err)
	require.True(t, approve)
}

func TestNew_SelectsProviderByConfig(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		apiKey   string
		wantErr  bool
		wantType any
	}{
		{name: "empty defaults to mock", provider: "", wantType: &Mock{}},
		{name: "explicit mock", provider: "mock", wantType: &Mock{}},
		{name: "anthropic requires api key", provider: "anthropic", wantErr: true},
		{name: "anthropic with key", provider: "anthropic", apiKey: "sk-ant-test", wantType: &Anthropic{}},
		{name: "ollama", provider: "ollama", wantType: &Ollama{}},
		{name: "local", provider: "local", wantType: &Local{}},
		{name: "unknown provider errors", provider: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := New(config.LLMConfig{Provider: tt.provider, APIKey: tt.apiKey})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.IsType(t, tt.wantType, provider)
		})
	}
}
