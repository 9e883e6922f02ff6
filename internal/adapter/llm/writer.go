// Package llm implements the weekly report narrative writer on top of the
// Anthropic Messages API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/careops/compliance-backend/internal/config"
	"github.com/careops/compliance-backend/internal/domain"
)

// ReportWriter turns structured weekly metrics into narrative prose.
// The metrics are computed upstream and passed verbatim; the model is never
// asked to invent or recompute numbers.
type ReportWriter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	log       *slog.Logger
}

// NewReportWriter creates a ReportWriter. The client picks up ANTHROPIC_API_KEY
// from the environment.
func NewReportWriter(cfg config.ReportConfig, logger *slog.Logger) *ReportWriter {
	return &ReportWriter{
		client:    anthropic.NewClient(),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		timeout:   cfg.Timeout,
		log:       logger.With("component", "report_writer"),
	}
}

// WriteReport generates the narrative for one participant-week.
func (w *ReportWriter) WriteReport(ctx context.Context, input domain.ReportInput) (string, error) {
	inputJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	msg, err := w.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(w.model),
		MaxTokens: w.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(string(inputJSON)))),
		},
	})
	if err != nil {
		return "", domain.NewUpstreamError("report writer", err)
	}

	if len(msg.Content) == 0 {
		return "", domain.NewUpstreamError("report writer", fmt.Errorf("empty response"))
	}

	narrative := strings.TrimSpace(msg.Content[0].Text)
	if narrative == "" {
		return "", domain.NewUpstreamError("report writer", fmt.Errorf("blank narrative"))
	}

	w.log.InfoContext(ctx, "narrative generated",
		slog.String("participant_id", input.Metrics.ParticipantID.String()),
		slog.Duration("elapsed", time.Since(start)))

	return narrative, nil
}

func buildPrompt(inputJSON string) string {
	return fmt.Sprintf(`You are a compliance coordinator writing a weekly service report for a care provider.

Structured data for one participant over one reporting week:
%s

Write a concise narrative report (3-5 short paragraphs) covering:
- Overall status for the week, consistent with the "overall" RAG value
- Checklist completion and any critical failures, citing the item details verbatim where relevant
- Incidents, medication misses, PRN or restrictive practice use, if any
- Open corrective actions and their severity

Rules:
- Use ONLY the numbers and facts in the data above. Never invent, estimate, or recompute figures.
- Refer to the participant as "the participant", never by name or identifier.
- Plain professional prose. No markdown, no headings, no bullet lists.`, inputJSON)
}
