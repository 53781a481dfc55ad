package resumebuilder

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallen12/Resume-RAG/llm"
	"github.com/tallen12/Resume-RAG/rag"
	"github.com/tallen12/Resume-RAG/testutil"
	"github.com/tallen12/Resume-RAG/testutil/fixtures"
	"github.com/tallen12/Resume-RAG/testutil/mocks"
	"github.com/tallen12/Resume-RAG/types"
	"github.com/tallen12/Resume-RAG/workflow"
)

func experienceStore(owner uuid.UUID) *mocks.MockVectorStore[Metadata] {
	stranger := uuid.New()
	store := mocks.NewMockVectorStore[Metadata]()
	for i, entry := range fixtures.ExperienceEntries() {
		id := owner
		if i%2 == 1 {
			id = stranger
		}
		store.WithDocuments(rag.Document[Metadata]{
			ID:       uuid.New(),
			Content:  entry,
			Metadata: Metadata{UserName: "ada", UserID: &id},
		})
	}
	return store
}

func TestPipeline_Invoke(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	chat := mocks.NewMockChatModel().WithResponse(fixtures.BulletPointsJSON)
	store := experienceStore(owner)

	engine, err := NewEngine(New(chat, store, WithTopK(2)))
	require.NoError(t, err)
	assert.Equal(t, Name, engine.Name())

	out, err := engine.Invoke(testutil.TestContext(t), State{Description: fixtures.JobDescription})
	require.NoError(t, err)

	entries := fixtures.ExperienceEntries()
	assert.Equal(t, fixtures.JobDescription, out.Description)
	assert.Equal(t, entries[:2], out.Experience)
	assert.Equal(t, fixtures.BulletPoints, out.BulletPoints)

	assert.Equal(t, []mocks.MockLookup{{Query: fixtures.JobDescription, TopK: 2}}, store.Lookups())

	calls := chat.Calls()
	require.Len(t, calls, 1)
	require.NotNil(t, calls[0].Options.Schema, "structured output schema requested")
	testutil.AssertMessagesEqual(t, []types.Message{
		types.NewUserMessage(testutil.MustJSON(t, prompt{
			Prompt:     instruction + ": " + fixtures.JobDescription,
			Experience: entries[:2],
		})),
	}, calls[0].Messages)
}

func TestPipeline_UserFilter(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	entries := fixtures.ExperienceEntries()

	t.Run("option", func(t *testing.T) {
		engine, err := NewEngine(New(mocks.NewMockChatModel().WithResponse(fixtures.BulletPointsJSON), experienceStore(owner), WithUserFilter(owner)))
		require.NoError(t, err)

		out, err := engine.Invoke(testutil.TestContext(t), State{Description: "go"})
		require.NoError(t, err)
		assert.Equal(t, []string{entries[0], entries[2]}, out.Experience)
	})

	t.Run("context", func(t *testing.T) {
		engine, err := NewEngine(New(mocks.NewMockChatModel().WithResponse(fixtures.BulletPointsJSON), experienceStore(owner)))
		require.NoError(t, err)

		out, err := engine.Invoke(testutil.UserContext(t, owner.String()), State{Description: "go"})
		require.NoError(t, err)
		assert.Equal(t, []string{entries[0], entries[2]}, out.Experience)

		out, err = engine.Invoke(testutil.UserContext(t, "not-a-uuid"), State{Description: "go"})
		require.NoError(t, err)
		assert.Len(t, out.Experience, DefaultTopK)
	})
}

func TestPipeline_FencedReply(t *testing.T) {
	t.Parallel()

	chat := mocks.NewMockChatModel().WithResponse(fixtures.FencedBulletPointsJSON)
	engine, err := NewEngine(New(chat, experienceStore(uuid.New())))
	require.NoError(t, err)

	out, err := engine.Invoke(testutil.TestContext(t), State{Description: "go"})
	require.NoError(t, err)
	assert.Equal(t, fixtures.BulletPoints, out.BulletPoints)
}

func TestPipeline_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name  string
		chat  *mocks.MockChatModel
		store *mocks.MockVectorStore[Metadata]
		node  string
		check func(t *testing.T, err error)
	}{
		{
			name:  "store failure",
			chat:  mocks.NewMockChatModel().WithResponse(fixtures.BulletPointsJSON),
			store: experienceStore(uuid.New()).WithError(boom),
			node:  "LOOKUP_EXPERIENCE",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, boom) },
		},
		{
			name:  "chat failure",
			chat:  mocks.NewMockChatModel().WithError(boom),
			store: experienceStore(uuid.New()),
			node:  "GENERATE_BULLET_POINTS",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, boom) },
		},
		{
			name:  "unstructured reply",
			chat:  mocks.NewMockChatModel().WithResponse("I cannot help with that."),
			store: experienceStore(uuid.New()),
			node:  "GENERATE_BULLET_POINTS",
			check: func(t *testing.T, err error) {
				assert.Equal(t, types.ErrInvalidResponse, types.GetErrorCode(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(New(tt.chat, tt.store))
			require.NoError(t, err)

			_, err = engine.Invoke(testutil.TestContext(t), State{Description: "go"})
			require.Error(t, err)

			var nodeErr *workflow.NodeError
			require.ErrorAs(t, err, &nodeErr)
			assert.Equal(t, Name, nodeErr.Workflow)
			assert.Equal(t, tt.node, nodeErr.Node)
			tt.check(t, err)
		})
	}
}

func TestPipeline_ChatOptionsForwarded(t *testing.T) {
	t.Parallel()

	chat := mocks.NewMockChatModel().WithResponse(fixtures.BulletPointsJSON)
	engine, err := NewEngine(New(chat, experienceStore(uuid.New()), WithChatOptions(llm.WithModel("resume-model"), llm.WithTemperature(0))))
	require.NoError(t, err)

	_, err = engine.Invoke(testutil.TestContext(t), State{Description: "go"})
	require.NoError(t, err)

	opts := chat.Calls()[0].Options
	assert.Equal(t, "resume-model", opts.Model)
	require.NotNil(t, opts.Temperature)
	assert.NotNil(t, opts.Schema)
}

func TestPipeline_BatchWithMemoryStore(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	store := rag.NewMemoryStore[Metadata](mocks.NewMockEmbeddingModel(128), nil, nil)
	entries := fixtures.ExperienceEntries()
	meta := make([]Metadata, len(entries))
	for i := range meta {
		meta[i] = Metadata{UserName: "ada", UserID: &owner}
	}
	_, err := store.AddWithMetadata(testutil.TestContext(t), entries, meta)
	require.NoError(t, err)

	chat := mocks.NewMockChatModel().WithResponse(fixtures.BulletPointsJSON)
	engine, err := NewEngine(New(chat, store, WithTopK(1), WithUserFilter(owner)), workflow.WithMaxBatchConcurrency(2))
	require.NoError(t, err)

	outs, err := engine.Batch(testutil.TestContext(t), []State{
		{Description: "python data pipelines sql warehouse"},
		{Description: "mentored engineers on-call rotation"},
	})
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, []string{entries[1]}, outs[0].Experience)
	assert.Equal(t, []string{entries[3]}, outs[1].Experience)
	assert.Equal(t, 2, chat.CallCount())
}

func TestPipeline_Topology(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(New(mocks.NewMockChatModel(), mocks.NewMockVectorStore[Metadata]()))
	require.NoError(t, err)

	assert.Equal(t, "graph TD\n"+
		"    __start__((\"__start__\"))\n"+
		"    LOOKUP_EXPERIENCE[\"LOOKUP_EXPERIENCE\"]\n"+
		"    GENERATE_BULLET_POINTS[\"GENERATE_BULLET_POINTS\"]\n"+
		"    __end__((\"__end__\"))\n"+
		"    __start__ --> LOOKUP_EXPERIENCE\n"+
		"    LOOKUP_EXPERIENCE --> GENERATE_BULLET_POINTS\n"+
		"    GENERATE_BULLET_POINTS --> __end__\n",
		engine.Mermaid())
}

func TestPipeline_UnknownStepPanics(t *testing.T) {
	t.Parallel()

	p := New(mocks.NewMockChatModel(), mocks.NewMockVectorStore[Metadata]())
	assert.PanicsWithError(t, `workflow: no implementation for step "Step(7)"`, func() {
		p.ImplementationFor(Step(7))
	})
}
