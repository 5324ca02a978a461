// Package advisor asks a text-generation service to propose or critique
// workflows. Every call resolves to a result value; failures become fixed
// fallback text instead of errors.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/simonbystrom/flowview/internal/telemetry"
	"github.com/simonbystrom/flowview/internal/workflow"
)

const (
	FallbackSuggestion = "Custom workflow generated."
	FailedSuggestion   = "Failed to generate workflow. Check API key."
	FallbackAnalysis   = "No analysis available."
	FailedAnalysis     = "Analysis failed."

	scope = "github.com/simonbystrom/flowview/advisor"
)

// Generator is the text-generation service behind the advisor.
type Generator interface {
	// GenerateStructured returns JSON conforming to schema.
	GenerateStructured(ctx context.Context, prompt string, schema Schema) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Suggestion is the outcome of GenerateSuggestion. When Failed is set, Text
// holds the failure message and Nodes is nil.
type Suggestion struct {
	Text   string
	Nodes  []workflow.Node
	Failed bool
}

// Analysis is the outcome of AnalyzeWorkflow.
type Analysis struct {
	Text   string
	Failed bool
}

type Advisor struct {
	gen     Generator
	timeout time.Duration
}

// New returns an Advisor backed by gen. A zero timeout leaves calls bounded
// only by the caller's context.
func New(gen Generator, timeout time.Duration) *Advisor {
	metricsOnce.Do(initMetrics)
	return &Advisor{gen: gen, timeout: timeout}
}

// GenerateSuggestion proposes a workflow for a free-text project description.
func (a *Advisor) GenerateSuggestion(ctx context.Context, description string) Suggestion {
	ctx, span, done := a.begin(ctx, "suggest")
	defer span.End()

	raw, err := a.gen.GenerateStructured(ctx, suggestionPrompt(description), suggestionSchema)
	var s Suggestion
	if err == nil {
		s, err = parseSuggestion(raw)
	}
	if err != nil {
		done(err)
		slog.Warn("workflow suggestion failed", "error", err)
		return Suggestion{Text: FailedSuggestion, Failed: true}
	}

	done(nil)
	span.SetAttributes(attribute.Int("flowview.ai.nodes", len(s.Nodes)))
	slog.Info("workflow suggested", "nodes", len(s.Nodes))
	return s
}

// AnalyzeWorkflow asks for improvement notes on the current nodes.
func (a *Advisor) AnalyzeWorkflow(ctx context.Context, nodes []workflow.Node) Analysis {
	ctx, span, done := a.begin(ctx, "analyze")
	defer span.End()

	if nodes == nil {
		nodes = []workflow.Node{}
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		done(err)
		return Analysis{Text: FailedAnalysis, Failed: true}
	}

	text, err := a.gen.GenerateText(ctx, analysisPrompt(string(data)))
	if err != nil {
		done(err)
		slog.Warn("workflow analysis failed", "error", err)
		return Analysis{Text: FailedAnalysis, Failed: true}
	}

	done(nil)
	if strings.TrimSpace(text) == "" {
		return Analysis{Text: FallbackAnalysis}
	}
	return Analysis{Text: text}
}

// begin opens a span and applies the advisor timeout. The returned func
// records the outcome once.
func (a *Advisor) begin(ctx context.Context, op string) (context.Context, trace.Span, func(error)) {
	ctx, span := telemetry.Tracer(scope).Start(ctx, "advisor."+op)
	span.SetAttributes(attribute.String("flowview.ai.operation", op))

	cancel := context.CancelFunc(func() {})
	if a.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
	}

	start := time.Now()
	done := func(err error) {
		defer cancel()
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if aiMetrics.requests != nil {
			attrs := metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("outcome", outcome),
			)
			aiMetrics.requests.Add(ctx, 1, attrs)
			aiMetrics.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
		}
	}
	return ctx, span, done
}

var errEmptyResponse = errors.New("empty response")

type rawSuggestion struct {
	Suggestion string          `json:"suggestion"`
	Nodes      []workflow.Node `json:"nodes"`
}

// parseSuggestion decodes the structured reply. Missing fields fall back to
// defaults and unknown enum values are normalized; only undecodable JSON is
// an error.
func parseSuggestion(raw string) (Suggestion, error) {
	if strings.TrimSpace(raw) == "" {
		return Suggestion{}, errEmptyResponse
	}
	var r rawSuggestion
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}

	s := Suggestion{Text: r.Suggestion, Nodes: make([]workflow.Node, 0, len(r.Nodes))}
	if s.Text == "" {
		s.Text = FallbackSuggestion
	}
	for _, n := range r.Nodes {
		n = workflow.Normalize(n)
		if n.ID == "" {
			n.ID = workflow.NewNodeID()
		}
		s.Nodes = append(s.Nodes, n)
	}
	return s, nil
}

var aiMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

var metricsOnce sync.Once

func initMetrics() {
	m := telemetry.Meter(scope)
	aiMetrics.requests, _ = m.Int64Counter("flowview.ai.requests",
		metric.WithDescription("Advisor requests by operation and outcome"),
		metric.WithUnit("{request}"),
	)
	aiMetrics.duration, _ = m.Float64Histogram("flowview.ai.request.duration",
		metric.WithDescription("Advisor request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}
