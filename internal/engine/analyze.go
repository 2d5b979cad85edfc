package engine

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/ai"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
)

const unknownModel = "unknown"

// BuildRequest assembles the text sent to the model.
func BuildRequest(body, instruction, target string) string {
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n")
	if instruction != "" {
		b.WriteString("Additional instruction:\n")
		b.WriteString(instruction)
		b.WriteString("\n\n")
	}
	b.WriteString("Target data:\n")
	b.WriteString(target)
	return b.String()
}

// outputMode picks how the response is delivered: an explicit flag, then
// normal for detached runs, then the prompt's preference, then normal.
func (e *Engine) outputMode(r *run) models.OutputMode {
	switch {
	case r.rc.Options.Stream:
		return models.OutputStream
	case r.rc.Options.Normal:
		return models.OutputNormal
	case e.detached():
		return models.OutputNormal
	}
	if r.prompt != nil {
		if out, ok := r.prompt.PreferredOutput(); ok {
			return out
		}
	}
	return models.OutputNormal
}

// analyze sends one request and returns the response text. The client is
// built on first use and reused by retries.
func (e *Engine) analyze(ctx context.Context, r *run) (string, error) {
	r.output = e.outputMode(r)
	if r.output == models.OutputBackground && r.variant.ForbidBackground {
		return "", apperrors.BackgroundNotSupportedError(string(r.rc.Mode))
	}

	if r.client == nil {
		client, err := e.Factory.Create(ctx, r.model.Provider, r.model.Model)
		if err != nil {
			return "", err
		}
		r.client = client
	}

	request := BuildRequest(r.prompt.Content, r.rc.Instruction, r.context)
	e.Console.Info("Analyzing with %s (%s mode)...", r.model.Provider, r.rc.Mode)
	r.logger.Debug("calling model",
		zap.String("provider", r.model.Provider),
		zap.String("model", r.model.Model),
		zap.String("output", string(r.output)),
		zap.Int("request_bytes", len(request)))

	if r.output == models.OutputStream {
		return e.analyzeStream(ctx, r, request)
	}
	return e.analyzeNormal(ctx, r, request)
}

func (e *Engine) analyzeStream(ctx context.Context, r *run, request string) (string, error) {
	e.Console.Println("")
	resp, err := r.client.GenerateContentStream(ctx, request, func(chunk string) error {
		e.Console.Print(chunk)
		return nil
	})
	if err != nil {
		return "", e.callFailed(r, err)
	}
	e.Console.Println("\n")

	// Streaming responses carry no usage; the ledger records the response
	// length instead.
	n := utf8.RuneCountInString(resp.Text)
	e.recordUsage(r, ai.TokenUsage{PromptTokens: 0, CompletionTokens: n, TotalTokens: n})
	return resp.Text, nil
}

func (e *Engine) analyzeNormal(ctx context.Context, r *run, request string) (string, error) {
	resp, err := r.client.GenerateContent(ctx, request)
	if err != nil {
		return "", e.callFailed(r, err)
	}

	text := resp.Text
	if text == "" {
		text = "The AI returned an empty response."
	}
	e.Console.Info("Analysis result:")
	e.Console.Print(e.Renderer.RenderOrPlain(text))

	if u := resp.Usage; u != nil {
		e.Console.Dim("Tokens: input %d, output %d, total %d", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
		e.recordUsage(r, *u)
	}
	return text, nil
}

func (e *Engine) callFailed(r *run, err error) error {
	r.logger.Error("model call failed",
		zap.String("provider", r.model.Provider),
		zap.String("model", r.model.Model),
		zap.Error(err))
	e.Console.Error("AI API error: %v", err)
	return apperrors.AICallError(r.model.Provider, r.model.Model, err)
}

func (e *Engine) recordUsage(r *run, u ai.TokenUsage) {
	if e.Usage == nil {
		return
	}
	model := r.model.Model
	if model == "" {
		model = unknownModel
	}
	err := e.Usage.Record(e.Now(), string(r.rc.Mode), r.model.Provider, model,
		u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	if err != nil {
		r.logger.Warn("failed to record token usage", zap.Error(err))
	}
}
