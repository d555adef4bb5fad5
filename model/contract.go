package model

import (
	"time"
)

// ContractJob is the upload-time record for one submitted contract.
// Immutable after creation; the pipeline writes only status and result.
type ContractJob struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Tenant     string    `json:"tenant"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Processing state constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// StatusRecord tracks pipeline progress for one contract.
// Invariants: completed implies progress 100 and a stored result;
// failed implies a non-empty Error.
type StatusRecord struct {
	State       string `json:"state"`
	Progress    int    `json:"progress"`
	CurrentStep string `json:"current_step,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ResultRecord holds everything extracted from one completed contract.
// Written exactly once, at the final pipeline stage.
type ResultRecord struct {
	Filename              string                `json:"filename"`
	ContractID            string                `json:"contract_id"`
	SizeBytes             int64                 `json:"size_bytes"`
	Party                 Party                 `json:"party"`
	AccountInfo           AccountInfo           `json:"account_info"`
	FinancialDetails      FinancialDetails      `json:"financial_details"`
	PaymentStructure      PaymentStructure      `json:"payment_structure"`
	RevenueClassification RevenueClassification `json:"revenue_classification"`
	SLA                   SLA                   `json:"sla"`
	ConfidenceScores      ScoreRecord           `json:"confidence_scores"`
	Gaps                  []string              `json:"gaps"`
	CompletedAt           time.Time             `json:"completed_at"`
}

// ScoreRecord is the weighted completeness breakdown for one contract.
type ScoreRecord struct {
	Overall               float64 `json:"overall"`
	PartyIdentification   float64 `json:"party_identification"`
	FinancialCompleteness float64 `json:"financial_completeness"`
	PaymentTerms          float64 `json:"payment_terms"`
	SLADefinition         float64 `json:"sla_definition"`
	ContactInformation    float64 `json:"contact_information"`
}

// Extraction aggregates all section outputs of one pipeline run.
type Extraction struct {
	Party                 Party                 `json:"party"`
	AccountInfo           AccountInfo           `json:"account_info"`
	FinancialDetails      FinancialDetails      `json:"financial_details"`
	PaymentStructure      PaymentStructure      `json:"payment_structure"`
	RevenueClassification RevenueClassification `json:"revenue_classification"`
	SLA                   SLA                   `json:"sla"`
}

type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type PartyEntity struct {
	Name     string  `json:"name,omitempty"`
	Location string  `json:"location,omitempty"`
	Contact  Contact `json:"contact"`
}

type Party struct {
	ServiceProvider PartyEntity `json:"service_provider"`
	Customer        PartyEntity `json:"customer"`
	AuthorizedReps  []string    `json:"authorized_reps,omitempty"`
}

type BillingContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type BankingInformation struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
}

type AccountInfo struct {
	AccountNumber      string             `json:"account_number,omitempty"`
	BillingContact     BillingContact     `json:"billing_contact"`
	BankingInformation BankingInformation `json:"banking_information"`
}

type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Frequency   string  `json:"frequency,omitempty"`
}

type FinancialDetails struct {
	TotalValue *float64           `json:"total_value,omitempty"`
	Currency   string             `json:"currency,omitempty"`
	Breakdown  map[string]float64 `json:"breakdown,omitempty"`
	LineItems  []LineItem         `json:"line_items,omitempty"`
}

type PaymentStructure struct {
	Terms     string `json:"terms,omitempty"`
	Method    string `json:"method,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	LateFees  string `json:"late_fees,omitempty"`
}

type RevenueClassification struct {
	Recurring    bool   `json:"recurring"`
	OneTime      bool   `json:"one_time"`
	AutoRenewal  bool   `json:"auto_renewal"`
	Subscription bool   `json:"subscription"`
	UsageBased   bool   `json:"usage_based"`
	ContractTerm string `json:"contract_term,omitempty"`
}

type SLA struct {
	Availability       string            `json:"availability,omitempty"`
	ResponseTimes      map[string]string `json:"response_times,omitempty"`
	PerformanceMetrics map[string]string `json:"performance_metrics,omitempty"`
	ServiceCredits     []string          `json:"service_credits,omitempty"`
	SupportHours       string            `json:"support_hours,omitempty"`
}

// ContractSummary is the list-view projection of a job plus its live status.
type ContractSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"upload_date"`
	State      string    `json:"status"`
	Progress   int       `json:"progress"`
	Score      *float64  `json:"score,omitempty"`
}
