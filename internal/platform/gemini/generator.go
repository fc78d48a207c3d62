package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/studyhall/studyhall-api/internal/config"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/generation"
)

// defaultPromptTemplate instructs the model to respond with a strict JSON
// object matching ResponseSchema.
const defaultPromptTemplate = `You are a study assistant that turns source material into flashcards.

Extract question/answer flashcards from the text below. Respond with JSON
only, in exactly this shape:

{"cards": [{"front": "...", "back": "...", "difficulty": "easy|medium|hard"}]}

Rules:
- Each card tests one fact or concept.
- "front" is a question or prompt; "back" is the answer.
- Omit cards whose answer is not supported by the text.

Text:
{{.SourceText}}
`

// Generator implements generation.Generator using Google's Gemini API.
type Generator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed card generator.
// Returns generation.ErrInvalidConfig if the configuration is incomplete.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("flashcard").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateCards extracts flashcards from the source text via the Gemini API.
func (g *Generator) GenerateCards(
	ctx context.Context,
	sourceText string,
	userID, deckID uuid.UUID,
) ([]*domain.Card, error) {
	prompt, err := g.createPrompt(sourceText)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response, userID, deckID)
}

func (g *Generator) createPrompt(sourceText string) (string, error) {
	if sourceText == "" {
		return "", generation.ErrEmptySourceText
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{SourceText: sourceText}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the Gemini API, retrying transient failures with
// exponential backoff and jitter. Permanent errors (blocked content,
// malformed responses) are returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (*ResponseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		response, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt, scaled by a jitter factor in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce performs a single API round trip. The second return value reports
// whether a failure is worth retrying.
func (g *Generator) callOnce(ctx context.Context, prompt string) (*ResponseSchema, bool, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text string
	for _, part := range candidate.Content.Parts {
		text += part.Text
	}

	parsed, err := parseResponseText(text)
	if err != nil {
		return nil, false, err
	}
	return parsed, false, nil
}

// parseResponseText decodes the model output into a ResponseSchema,
// tolerating markdown code fences around the JSON body.
func parseResponseText(text string) (*ResponseSchema, error) {
	body := stripCodeFence(text)

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

func (g *Generator) parseResponse(
	ctx context.Context,
	response *ResponseSchema,
	userID, deckID uuid.UUID,
) ([]*domain.Card, error) {
	if response == nil || len(response.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	cards := make([]*domain.Card, 0, len(response.Cards))
	for i, schema := range response.Cards {
		if schema.Front == "" {
			return nil, fmt.Errorf("%w: card %d missing front side", generation.ErrInvalidResponse, i)
		}
		if schema.Back == "" {
			return nil, fmt.Errorf("%w: card %d missing back side", generation.ErrInvalidResponse, i)
		}

		difficulty := domain.Difficulty(schema.Difficulty)
		if !difficulty.IsValid() {
			difficulty = domain.DifficultyMedium
		}

		card, err := domain.NewCard(userID, deckID, schema.Front, schema.Back, difficulty, i)
		if err != nil {
			return nil, fmt.Errorf("failed to create card: %w", err)
		}
		cards = append(cards, card)
	}

	g.logger.InfoContext(ctx, "parsed Gemini response",
		slog.Int("card_count", len(cards)),
		slog.String("deck_id", deckID.String()))

	return cards, nil
}
