package resumebuilder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tallen12/Resume-RAG/changeset"
	"github.com/tallen12/Resume-RAG/codec"
	"github.com/tallen12/Resume-RAG/llm"
	"github.com/tallen12/Resume-RAG/rag"
	"github.com/tallen12/Resume-RAG/types"
	"github.com/tallen12/Resume-RAG/workflow"
)

// Name is the workflow name used by NewEngine.
const Name = "resume_builder"

// DefaultTopK is the number of experience entries retrieved per run.
const DefaultTopK = 4

const instruction = "Generate bullet points for the following experience that best match this description"

// Step enumerates the pipeline steps.
type Step int

const (
	LookupExperience Step = iota
	GenerateBulletPoints
)

func (s Step) String() string {
	switch s {
	case LookupExperience:
		return "LOOKUP_EXPERIENCE"
	case GenerateBulletPoints:
		return "GENERATE_BULLET_POINTS"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// State is threaded through the pipeline.
type State struct {
	Description  string
	Experience   []string
	BulletPoints []string
}

// Update is the partial state a step returns.
type Update struct {
	Experience   changeset.ChangeSet[[]string]
	BulletPoints changeset.ChangeSet[[]string]
}

// Metadata is stored with each experience entry.
type Metadata struct {
	UserName string     `json:"user_name,omitempty"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
}

// StructuredOutput is the reply shape requested from the chat model.
type StructuredOutput struct {
	BulletPoints []string `json:"bullet_points"`
}

// Pipeline is the workflow definition.
type Pipeline struct {
	chat     llm.ChatModel
	store    rag.VectorStore[Metadata]
	output   *codec.JSONCodec[StructuredOutput]
	topK     int
	filter   rag.FilterFunc[Metadata]
	chatOpts []llm.ChatOption
	logger   *zap.Logger
}

var _ workflow.Definition[Step, State, Update] = (*Pipeline)(nil)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTopK sets how many experience entries are retrieved.
func WithTopK(k int) Option {
	return func(p *Pipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithUserFilter restricts retrieval to entries owned by userID.
func WithUserFilter(userID uuid.UUID) Option {
	return WithFilter(ownedBy(userID))
}

// WithFilter sets the retrieval filter.
func WithFilter(filter rag.FilterFunc[Metadata]) Option {
	return func(p *Pipeline) { p.filter = filter }
}

// WithChatOptions adds options to every chat request.
func WithChatOptions(opts ...llm.ChatOption) Option {
	return func(p *Pipeline) { p.chatOpts = append(p.chatOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns the pipeline over chat and store.
func New(chat llm.ChatModel, store rag.VectorStore[Metadata], opts ...Option) *Pipeline {
	p := &Pipeline{
		chat:   chat,
		store:  store,
		output: codec.NewJSONCodec[StructuredOutput](),
		topK:   DefaultTopK,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.String("component", Name))
	return p
}

// NewEngine compiles p under Name. Later options override earlier ones.
func NewEngine(p *Pipeline, opts ...workflow.Option) (*workflow.Engine[Step, State, Update], error) {
	return workflow.New[Step, State, Update](p, append([]workflow.Option{workflow.WithName(Name)}, opts...)...)
}

func (p *Pipeline) Steps() []Step {
	return []Step{LookupExperience, GenerateBulletPoints}
}

func (p *Pipeline) Edges() []workflow.Edge[Step, State] {
	return []workflow.Edge[Step, State]{
		workflow.Static(workflow.Start[Step](), workflow.At(LookupExperience)),
		workflow.Static(workflow.At(LookupExperience), workflow.At(GenerateBulletPoints)),
		workflow.Static(workflow.At(GenerateBulletPoints), workflow.End[Step]()),
	}
}

func (p *Pipeline) ImplementationFor(step Step) workflow.Action[State, Update] {
	switch step {
	case LookupExperience:
		return workflow.ActionFunc[State, Update](p.lookup)
	case GenerateBulletPoints:
		return workflow.ActionFunc[State, Update](p.generate)
	default:
		panic(workflow.UnhandledStep(step))
	}
}

func (p *Pipeline) lookup(ctx context.Context, s State) (Update, error) {
	docs, err := p.store.Lookup(ctx, s.Description, p.filterFor(ctx), p.topK)
	if err != nil {
		return Update{}, fmt.Errorf("lookup experience: %w", err)
	}

	experience := make([]string, len(docs))
	for i, d := range docs {
		experience[i] = d.Content
	}
	p.logger.Debug("experience retrieved", zap.Int("documents", len(experience)), zap.Int("top_k", p.topK))
	return Update{Experience: changeset.Set(experience)}, nil
}

// filterFor uses the configured filter, then a user ID carried by ctx, then
// accepts everything.
func (p *Pipeline) filterFor(ctx context.Context) rag.FilterFunc[Metadata] {
	if p.filter != nil {
		return p.filter
	}
	if raw, ok := types.UserID(ctx); ok {
		if id, err := uuid.Parse(raw); err == nil {
			return ownedBy(id)
		}
		p.logger.Warn("ignoring malformed user id in context", zap.String("user_id", raw))
	}
	return rag.AcceptAll[Metadata]()
}

func ownedBy(userID uuid.UUID) rag.FilterFunc[Metadata] {
	return func(d rag.Document[Metadata]) bool {
		return d.Metadata.UserID != nil && *d.Metadata.UserID == userID
	}
}

type prompt struct {
	Prompt     string   `json:"prompt"`
	Experience []string `json:"experience"`
}

func (p *Pipeline) generate(ctx context.Context, s State) (Update, error) {
	body, err := json.Marshal(prompt{Prompt: instruction + ": " + s.Description, Experience: s.Experience})
	if err != nil {
		return Update{}, fmt.Errorf("build prompt: %w", err)
	}

	opts := append([]llm.ChatOption{llm.WithStructuredOutput(p.output.Schema())}, p.chatOpts...)
	reply, err := p.chat.Chat(ctx, []types.Message{types.NewUserMessage(string(body))}, opts...)
	if err != nil {
		return Update{}, fmt.Errorf("generate bullet points: %w", err)
	}

	out, err := p.output.Decode([]byte(codec.ExtractJSON(reply.Content)))
	if err != nil {
		return Update{}, types.NewError(types.ErrInvalidResponse, "chat reply is not valid structured output").WithCause(err)
	}
	return Update{BulletPoints: changeset.Set(out.BulletPoints)}, nil
}
