// Package assistant answers free-text math questions with a generative model.
// It never fails outward: any problem becomes a fixed fallback answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zencalc/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the Gemini model queried when none is configured.
	DefaultModel = "gemini-3-flash-preview"

	// EmptyAnswer is returned when the model answers with no text.
	EmptyAnswer = "I couldn't calculate that. Please try another query."
	// Unavailable is returned when the model cannot be reached at all.
	Unavailable = "Error: Unable to reach the AI assistant."
)

var tracer = otel.Tracer("assistant")

// Solver turns a question into an answer. Implementations do not return
// errors; failures come back as a fallback answer.
type Solver interface {
	Solve(ctx context.Context, query string) string
}

// Prompt wraps a raw query with the instruction to answer concisely.
func Prompt(query string) string {
	return fmt.Sprintf("Solve this math problem or query: \"%s\". Provide a concise numerical answer first, followed by a very brief explanation if necessary. Format the response as plain text.", query)
}

// generator is the slice of *genai.Models the solver uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options tune the model call.
type Options struct {
	Model       string
	Temperature float32
	TopP        float32
	Timeout     time.Duration // 0 leaves it to the transport
}

// Gemini is a Solver backed by the Gemini API.
type Gemini struct {
	models generator
	opts   Options
}

// NewGemini creates a Gemini API client for apiKey.
func NewGemini(ctx context.Context, apiKey string, opts Options) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return newGemini(client.Models, opts), nil
}

func newGemini(models generator, opts Options) *Gemini {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &Gemini{models: models, opts: opts}
}

// Solve asks the model. Transport and API errors yield Unavailable, an empty
// response yields EmptyAnswer.
func (g *Gemini) Solve(ctx context.Context, query string) string {
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "assistant.solve",
		trace.WithAttributes(
			attribute.String("assistant.model", g.opts.Model),
			attribute.Int("assistant.query_length", len(query)),
		),
	)
	defer span.End()

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.opts.Model, genai.Text(Prompt(query)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.opts.Temperature),
		TopP:        genai.Ptr(g.opts.TopP),
	})
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		recordSolve(ctx, outcomeFailed, elapsed)
		logger.Error("gemini request failed",
			zap.String("model", g.opts.Model),
			zap.Error(err),
			zap.Float64("duration_ms", elapsed),
		)
		return Unavailable
	}

	answer := ""
	if resp != nil {
		answer = strings.TrimSpace(resp.Text())
	}
	if answer == "" {
		span.SetStatus(codes.Ok, "empty answer")
		recordSolve(ctx, outcomeEmpty, elapsed)
		logger.Warn("gemini returned no text", zap.String("model", g.opts.Model))
		return EmptyAnswer
	}

	span.SetStatus(codes.Ok, "")
	recordSolve(ctx, outcomeAnswered, elapsed)
	logger.Info("gemini answered",
		zap.String("model", g.opts.Model),
		zap.Int("answer_length", len(answer)),
		zap.Float64("duration_ms", elapsed),
	)
	return answer
}

// Offline is the Solver used when no model is configured. It always answers
// Unavailable.
type Offline struct {
	Reason string
}

func (o Offline) Solve(ctx context.Context, query string) string {
	observability.LoggerWithTrace(ctx).Warn("assistant is offline", zap.String("reason", o.Reason))
	recordSolve(ctx, outcomeFailed, 0)
	return Unavailable
}

func recordSolve(ctx context.Context, outcome string, elapsedMs float64) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	solveCounter.Add(ctx, 1, attrs)
	solveHistogram.Record(ctx, elapsedMs, attrs)
}
