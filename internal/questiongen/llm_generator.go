package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brianquiz/brianquiz/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      zerolog.Logger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, log zerolog.Logger) *LLMGenerator {
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		log:      log.With().Str("component", "questiongen").Logger(),
	}
}

// Generate asks the model for questions and normalizes its answer. A
// response that cannot be parsed or yields no questions is re-requested up
// to Config.MaxAttempts times.
func (g *LLMGenerator) Generate(ctx context.Context, in Input) (*Batch, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}

	purpose, schema := PurposeTopic, TopicSchema
	if in.Mode == ModeExtract {
		purpose, schema = PurposeExtract, ExtractSchema
	}
	ctx = llm.WithPurpose(ctx, purpose)

	msg := llm.Message{Role: llm.RoleUser, Content: buildUserMessage(in, g.count(in))}
	if in.Image != nil {
		msg.Images = []llm.Image{*in.Image}
	}
	req := llm.Request{
		System:      systemPrompt(in.Mode),
		Messages:    []llm.Message{msg},
		Schema:      schema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	attempts := max(g.config.MaxAttempts, 1)
	var lastErr error
	for attempt := range attempts {
		batch, err := g.once(ctx, req)
		if err == nil {
			g.log.Debug().
				Str("mode", in.Mode.String()).
				Int("questions", len(batch.Questions)).
				Msg("generated questions")
			return batch, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
		g.log.Warn().Err(err).Int("attempt", attempt+1).Msg("retrying question generation")
	}
	return nil, lastErr
}

func (g *LLMGenerator) once(ctx context.Context, req llm.Request) (*Batch, error) {
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw rawBatch
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}

	batch := normalize(raw)
	if len(batch.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return batch, nil
}

func (g *LLMGenerator) count(in Input) int {
	n := in.Count
	if n <= 0 {
		n = g.config.DefaultCount
	}
	if g.config.MaxCount > 0 && n > g.config.MaxCount {
		n = g.config.MaxCount
	}
	return n
}

func retryable(err error) bool {
	var invalid *llm.ErrInvalidResponse
	return errors.Is(err, ErrNoQuestions) || errors.As(err, &invalid)
}
