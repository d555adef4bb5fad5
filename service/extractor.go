package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/Krishan098/fo/model"
)

// ErrMalformedOutput marks model replies that could not be parsed as JSON.
// The pipeline tolerates it and proceeds with an empty section, so a noisy
// model degrades the score instead of failing the run.
var ErrMalformedOutput = errors.New("malformed extraction output")

// FieldExtractor produces one typed section per call from the full contract
// text. Implementations must return the same shapes regardless of strategy.
type FieldExtractor interface {
	ExtractParty(ctx context.Context, text string) (model.Party, error)
	ExtractAccountInfo(ctx context.Context, text string) (model.AccountInfo, error)
	ExtractFinancialDetails(ctx context.Context, text string) (model.FinancialDetails, error)
	ExtractPaymentStructure(ctx context.Context, text string) (model.PaymentStructure, error)
	ExtractRevenueClassification(ctx context.Context, text string) (model.RevenueClassification, error)
	ExtractSLA(ctx context.Context, text string) (model.SLA, error)
}

// ChatClient is the LLM dependency of the model-driven extractor.
type ChatClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

var contractIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Contract\s*(?:ID|Number|#)\s*:?\s*([A-Za-z0-9\-_]+)`),
	regexp.MustCompile(`(?i)Agreement\s*(?:ID|Number|#)\s*:?\s*([A-Za-z0-9\-_]+)`),
	regexp.MustCompile(`(?i)SSA[-_](\d{4}[-_]\d{4})`),
}

// ExtractContractNumber pulls the document's own contract number from its
// first-page text. When no pattern matches it falls back to a deterministic
// token derived from the leading text, so resubmitting the same document
// yields the same identifier.
func ExtractContractNumber(text string) string {
	for _, p := range contractIDPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	lead := text
	if len(lead) > 100 {
		lead = lead[:100]
	}
	h := fnv.New32a()
	h.Write([]byte(lead))
	return fmt.Sprintf("UNKNOWN_%d", h.Sum32()%10000)
}

// isolateJSON trims markdown fences and slices the reply from the first '{'
// to the last '}', which is how the model is instructed to answer.
func isolateJSON(reply string) (string, error) {
	reply = strings.ReplaceAll(reply, "```json", "")
	reply = strings.ReplaceAll(reply, "```", "")

	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in reply", ErrMalformedOutput)
	}
	return reply[start : end+1], nil
}
