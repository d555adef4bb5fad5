package service

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Krishan098/fo/model"
	"github.com/jdkato/prose/v2"
)

var _ FieldExtractor = (*HeuristicExtractor)(nil)

// HeuristicExtractor works offline: literal section headers open
// line-delimited capture blocks, regexes pick out amounts and terms, and
// prose NER fills in people and locations. It never calls out, so its
// methods never fail; fields it cannot find simply stay empty.
type HeuristicExtractor struct{}

func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	moneyRe    = regexp.MustCompile(`\$\s?([\d,]+(?:\.\d{1,2})?)`)
	locationRe = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*),\s*([A-Z]{2})\b`)
	netTermsRe = regexp.MustCompile(`(?i)\bNet\s*\d+\b`)
	uptimeRe   = regexp.MustCompile(`(?i)(\d{2}(?:\.\d+)?\s*%)\s*(?:uptime|availability)?`)
	severityRe = regexp.MustCompile(`(?i)\b(critical|high|medium|low)\b[^\n]*?(\d+\s*(?:business\s+)?(?:hour|minute|day)s?)`)
	termRe     = regexp.MustCompile(`(?i)(?:term of|for a period of|initial term[^\n]*?)\s*(\d+\s*(?:months?|years?))`)
	acctNumRe  = regexp.MustCompile(`(?i)Account\s*(?:Number|No\.?|#)\s*:?\s*([A-Za-z0-9\-]+)`)
	routingRe  = regexp.MustCompile(`(?i)Routing\s*(?:Number|No\.?)\s*:?\s*(\d+)`)
	bankRe     = regexp.MustCompile(`(?i)Bank(?:\s*Name)?\s*:\s*([^\n]+)`)
	dueRe      = regexp.MustCompile(`(?i)(?:due|payable)\s+(?:on\s+|by\s+|within\s+)?([^\n.;]{3,60})`)
	lateFeesRe = regexp.MustCompile(`(?i)late\s+(?:fee|payment|charge)s?[^\n]*?([\d.]+\s*%[^\n.;]*|\$[\d,.]+[^\n.;]*)`)
)

// captureBlock returns the lines following the first line containing header,
// up to the next blank line. Any text after a colon on the header line is
// included as the first entry.
func captureBlock(text, header string) []string {
	lines := strings.Split(text, "\n")
	lower := strings.ToLower(header)

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), lower) {
			continue
		}

		var block []string
		if idx := strings.Index(line, ":"); idx >= 0 {
			if rest := strings.TrimSpace(line[idx+1:]); rest != "" {
				block = append(block, rest)
			}
		}
		for j := i + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" {
				break
			}
			block = append(block, trimmed)
		}
		return block
	}
	return nil
}

func entityFromBlock(block []string) model.PartyEntity {
	var e model.PartyEntity
	if len(block) == 0 {
		return e
	}
	e.Name = block[0]

	joined := strings.Join(block, "\n")
	if m := locationRe.FindString(joined); m != "" {
		e.Location = m
	}
	if m := emailRe.FindString(joined); m != "" {
		e.Contact.Email = m
	}
	if m := phoneRe.FindString(joined); m != "" {
		e.Contact.Phone = strings.TrimSpace(m)
	}
	return e
}

func (h *HeuristicExtractor) ExtractParty(_ context.Context, text string) (model.Party, error) {
	var out model.Party

	out.ServiceProvider = entityFromBlock(captureBlock(text, "Service Provider:"))
	out.Customer = entityFromBlock(captureBlock(text, "Customer:"))
	if out.Customer.Name == "" {
		out.Customer = entityFromBlock(captureBlock(text, "Client:"))
	}

	// People named near the signature section are taken as authorized reps.
	repText := strings.Join(captureBlock(text, "Authorized Representative"), "\n")
	if repText == "" {
		repText = strings.Join(captureBlock(text, "Signatories"), "\n")
	}
	if repText != "" {
		doc, err := prose.NewDocument(repText)
		if err != nil {
			slog.Warn("entity recognition failed", "error", err)
			return out, nil
		}
		seen := make(map[string]bool)
		for _, ent := range doc.Entities() {
			if ent.Label != "PERSON" || seen[ent.Text] {
				continue
			}
			seen[ent.Text] = true
			out.AuthorizedReps = append(out.AuthorizedReps, ent.Text)
		}
	}

	return out, nil
}

func (h *HeuristicExtractor) ExtractAccountInfo(_ context.Context, text string) (model.AccountInfo, error) {
	var out model.AccountInfo

	if m := acctNumRe.FindStringSubmatch(text); m != nil {
		out.AccountNumber = m[1]
	}

	billing := captureBlock(text, "Billing Contact")
	if len(billing) > 0 {
		out.BillingContact.Name = billing[0]
		joined := strings.Join(billing, "\n")
		if m := emailRe.FindString(joined); m != "" {
			out.BillingContact.Email = m
		}
		if m := phoneRe.FindString(joined); m != "" {
			out.BillingContact.Phone = strings.TrimSpace(m)
		}
	}

	banking := strings.Join(captureBlock(text, "Banking"), "\n")
	if banking != "" {
		if m := bankRe.FindStringSubmatch(banking); m != nil {
			out.BankingInformation.BankName = strings.TrimSpace(m[1])
		}
		if m := routingRe.FindStringSubmatch(banking); m != nil {
			out.BankingInformation.RoutingNumber = m[1]
		}
		if m := acctNumRe.FindStringSubmatch(banking); m != nil {
			out.BankingInformation.AccountNumber = m[1]
		}
	}

	return out, nil
}

func parseMoney(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *HeuristicExtractor) ExtractFinancialDetails(_ context.Context, text string) (model.FinancialDetails, error) {
	var out model.FinancialDetails

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "total") {
			continue
		}
		if m := moneyRe.FindStringSubmatch(line); m != nil {
			if v, ok := parseMoney(m[1]); ok {
				out.TotalValue = &v
				break
			}
		}
	}

	if strings.Contains(text, "$") || strings.Contains(text, "USD") {
		out.Currency = "USD"
	}

	for _, header := range []string{"Line Items", "Schedule of Fees", "Services and Fees"} {
		block := captureBlock(text, header)
		for _, line := range block {
			m := moneyRe.FindStringSubmatchIndex(line)
			if m == nil {
				continue
			}
			desc := strings.TrimSpace(strings.Trim(line[:m[0]], " .:-"))
			amount, ok := parseMoney(line[m[2]:m[3]])
			if desc == "" || !ok {
				continue
			}
			item := model.LineItem{Description: desc, Amount: amount}
			lower := strings.ToLower(line)
			switch {
			case strings.Contains(lower, "month"):
				item.Frequency = "monthly"
			case strings.Contains(lower, "annual"), strings.Contains(lower, "year"):
				item.Frequency = "annual"
			case strings.Contains(lower, "one-time"), strings.Contains(lower, "setup"):
				item.Frequency = "one-time"
			}
			out.LineItems = append(out.LineItems, item)
		}
		if len(out.LineItems) > 0 {
			break
		}
	}

	return out, nil
}

func (h *HeuristicExtractor) ExtractPaymentStructure(_ context.Context, text string) (model.PaymentStructure, error) {
	var out model.PaymentStructure

	if m := netTermsRe.FindString(text); m != "" {
		out.Terms = m
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "ach"):
		out.Method = "ACH transfer"
	case strings.Contains(lower, "wire transfer"):
		out.Method = "Wire transfer"
	case strings.Contains(lower, "credit card"):
		out.Method = "Credit card"
	case strings.Contains(lower, "check"):
		out.Method = "Check"
	}

	if m := dueRe.FindStringSubmatch(text); m != nil {
		out.DueDate = strings.TrimSpace(m[1])
	}
	if m := lateFeesRe.FindStringSubmatch(text); m != nil {
		out.LateFees = strings.TrimSpace(m[1])
	}

	switch {
	case strings.Contains(lower, "monthly"):
		out.Frequency = "monthly"
	case strings.Contains(lower, "quarterly"):
		out.Frequency = "quarterly"
	case strings.Contains(lower, "annually"), strings.Contains(lower, "annual"):
		out.Frequency = "annual"
	}

	return out, nil
}

func (h *HeuristicExtractor) ExtractRevenueClassification(_ context.Context, text string) (model.RevenueClassification, error) {
	var out model.RevenueClassification
	lower := strings.ToLower(text)

	out.Recurring = strings.Contains(lower, "recurring") || strings.Contains(lower, "monthly fee")
	out.OneTime = strings.Contains(lower, "one-time") || strings.Contains(lower, "setup fee")
	out.AutoRenewal = strings.Contains(lower, "auto-renew") || strings.Contains(lower, "automatically renew")
	out.Subscription = strings.Contains(lower, "subscription")
	out.UsageBased = strings.Contains(lower, "usage-based") || strings.Contains(lower, "per use")

	if m := termRe.FindStringSubmatch(text); m != nil {
		out.ContractTerm = strings.TrimSpace(m[1])
	}

	return out, nil
}

func (h *HeuristicExtractor) ExtractSLA(_ context.Context, text string) (model.SLA, error) {
	var out model.SLA
	lower := strings.ToLower(text)

	if strings.Contains(lower, "uptime") || strings.Contains(lower, "availability") {
		if m := uptimeRe.FindStringSubmatch(text); m != nil {
			out.Availability = m[1] + " uptime"
		}
	}

	slaBlock := strings.Join(captureBlock(text, "Response Times"), "\n")
	if slaBlock == "" {
		slaBlock = text
	}
	for _, m := range severityRe.FindAllStringSubmatch(slaBlock, -1) {
		if out.ResponseTimes == nil {
			out.ResponseTimes = make(map[string]string)
		}
		severity := strings.ToLower(m[1])
		if _, dup := out.ResponseTimes[severity]; !dup {
			out.ResponseTimes[severity] = strings.TrimSpace(m[2])
		}
	}

	switch {
	case strings.Contains(lower, "24x7"), strings.Contains(lower, "24/7"):
		out.SupportHours = "24x7"
	case strings.Contains(lower, "8x5"):
		out.SupportHours = "8x5"
	}

	return out, nil
}
