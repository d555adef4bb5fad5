package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Krishan098/fo/model"
)

var _ FieldExtractor = (*LLMExtractor)(nil)

// LLMExtractor asks the chat model for one section at a time. Each prompt
// embeds a literal example of the JSON shape the section must come back in.
type LLMExtractor struct {
	client ChatClient
}

func NewLLMExtractor(client ChatClient) *LLMExtractor {
	return &LLMExtractor{client: client}
}

const partyPrompt = `Extract party information from this contract text. Return a JSON object with:
{
    "service_provider": {
        "name": "company name",
        "location": "city, state",
        "contact": {
            "phone": "phone number",
            "email": "email address"
        }
    },
    "customer": {
        "name": "customer company name",
        "location": "city, state",
        "contact": {
            "phone": "phone number",
            "email": "email address"
        }
    },
    "authorized_reps": ["list of authorized representative names"]
}

Contract text:
`

const accountInfoPrompt = `Extract account and billing information from this contract text. Return a JSON object with:
{
    "account_number": "customer account number",
    "billing_contact": {
        "name": "billing contact person name",
        "email": "billing email address",
        "phone": "billing phone number"
    },
    "banking_information": {
        "bank_name": "bank name",
        "account_number": "bank account number",
        "routing_number": "routing number"
    }
}

Contract text:
`

const financialPrompt = `Extract financial information from this contract text. Return a JSON object with:
{
    "total_value": 242500.00,
    "currency": "USD",
    "breakdown": {
        "monthly_recurring": 19000.00,
        "one_time_setup": 14500.00,
        "annual_recurring": 228000.00
    },
    "line_items": [
        {"description": "Cloud Infrastructure", "amount": 7500.00, "frequency": "monthly"},
        {"description": "Software Licenses", "amount": 9000.00, "frequency": "monthly"}
    ]
}

Contract text:
`

const paymentStructurePrompt = `Extract payment terms and structure from this contract text. Return a JSON object with:
{
    "terms": "Net 30",
    "method": "ACH transfer",
    "due_date": "30th of each month",
    "frequency": "monthly",
    "late_fees": "1.5% monthly interest"
}

Contract text:
`

const revenueClassificationPrompt = `Analyze the revenue model from this contract text. Return a JSON object with:
{
    "recurring": true,
    "one_time": true,
    "auto_renewal": true,
    "subscription": false,
    "usage_based": false,
    "contract_term": "24 months"
}

Contract text:
`

const slaPrompt = `Extract service level agreement details from this contract text. Return a JSON object with:
{
    "availability": "99.9% uptime",
    "response_times": {
        "critical": "1 hour",
        "high": "4 hours",
        "medium": "8 hours",
        "low": "24 hours"
    },
    "performance_metrics": {
        "response_time": "< 2 seconds",
        "backup_success_rate": "99.5%"
    },
    "service_credits": [
        "5% monthly fee credit for each 0.1% below 99.9% availability",
        "$500 credit for each SLA response time violation"
    ],
    "support_hours": "8x5"
}

Contract text:
`

// extractSection runs one prompt and decodes the isolated JSON into out.
// Transport errors surface as-is; unparseable replies come back as
// ErrMalformedOutput with out untouched.
func (e *LLMExtractor) extractSection(ctx context.Context, section, prompt, text string, out any) error {
	reply, err := e.client.Chat(ctx, prompt+text+"\n\nReturn only valid JSON, no additional text:")
	if err != nil {
		return fmt.Errorf("%s extraction: %w", section, err)
	}

	payload, err := isolateJSON(reply)
	if err != nil {
		slog.Warn("extraction reply had no JSON", "section", section)
		return err
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		slog.Warn("extraction reply failed to parse", "section", section, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrMalformedOutput, section, err)
	}
	return nil
}

func (e *LLMExtractor) ExtractParty(ctx context.Context, text string) (model.Party, error) {
	var out model.Party
	err := e.extractSection(ctx, "party", partyPrompt, text, &out)
	return out, err
}

func (e *LLMExtractor) ExtractAccountInfo(ctx context.Context, text string) (model.AccountInfo, error) {
	var out model.AccountInfo
	err := e.extractSection(ctx, "account_info", accountInfoPrompt, text, &out)
	return out, err
}

func (e *LLMExtractor) ExtractFinancialDetails(ctx context.Context, text string) (model.FinancialDetails, error) {
	var out model.FinancialDetails
	err := e.extractSection(ctx, "financial", financialPrompt, text, &out)
	return out, err
}

func (e *LLMExtractor) ExtractPaymentStructure(ctx context.Context, text string) (model.PaymentStructure, error) {
	var out model.PaymentStructure
	err := e.extractSection(ctx, "payment_structure", paymentStructurePrompt, text, &out)
	return out, err
}

func (e *LLMExtractor) ExtractRevenueClassification(ctx context.Context, text string) (model.RevenueClassification, error) {
	var out model.RevenueClassification
	err := e.extractSection(ctx, "revenue_classification", revenueClassificationPrompt, text, &out)
	return out, err
}

func (e *LLMExtractor) ExtractSLA(ctx context.Context, text string) (model.SLA, error) {
	var out model.SLA
	err := e.extractSection(ctx, "sla", slaPrompt, text, &out)
	return out, err
}
