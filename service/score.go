package service

import (
	"github.com/Krishan098/fo/model"
)

// Completeness weights. The categories sum to exactly 100 when every field
// is present:
//
//	party identification   25  (12.5 provider + 12.5 customer)
//	financial completeness 30  (15 total value + 10 line items + 5 currency)
//	payment terms          20  (8 terms + 6 method + 6 due date)
//	sla definition         15  (7 availability + 8 response times)
//	contact information    10  (5 billing email + 3 phone + 2 account number)
const (
	weightProviderName  = 12.5
	weightCustomerName  = 12.5
	weightTotalValue    = 15
	weightLineItems     = 10
	weightCurrency      = 5
	weightPaymentTerms  = 8
	weightPaymentMethod = 6
	weightDueDate       = 6
	weightAvailability  = 7
	weightResponseTimes = 8
	weightBillingEmail  = 5
	weightBillingPhone  = 3
	weightAccountNumber = 2
)

// ScoreExtraction computes the weighted completeness score and the list of
// human-readable gaps for one extraction. Pure and deterministic: the same
// extraction always yields the same record.
func ScoreExtraction(ex *model.Extraction) (model.ScoreRecord, []string) {
	var score model.ScoreRecord
	gaps := []string{}

	if ex.Party.ServiceProvider.Name != "" {
		score.PartyIdentification += weightProviderName
	} else {
		gaps = append(gaps, "Service provider name not identified")
	}
	if ex.Party.Customer.Name != "" {
		score.PartyIdentification += weightCustomerName
	} else {
		gaps = append(gaps, "Customer name not identified")
	}

	if ex.FinancialDetails.TotalValue != nil && *ex.FinancialDetails.TotalValue != 0 {
		score.FinancialCompleteness += weightTotalValue
	} else {
		gaps = append(gaps, "Total contract value not found")
	}
	if len(ex.FinancialDetails.LineItems) > 0 {
		score.FinancialCompleteness += weightLineItems
	} else {
		gaps = append(gaps, "Line items not detailed")
	}
	if ex.FinancialDetails.Currency != "" {
		score.FinancialCompleteness += weightCurrency
	} else {
		gaps = append(gaps, "Currency not specified")
	}

	if ex.PaymentStructure.Terms != "" {
		score.PaymentTerms += weightPaymentTerms
	} else {
		gaps = append(gaps, "Payment terms not defined")
	}
	if ex.PaymentStructure.Method != "" {
		score.PaymentTerms += weightPaymentMethod
	} else {
		gaps = append(gaps, "Payment method not specified")
	}
	if ex.PaymentStructure.DueDate != "" {
		score.PaymentTerms += weightDueDate
	} else {
		gaps = append(gaps, "Payment due date not specified")
	}

	if ex.SLA.Availability != "" {
		score.SLADefinition += weightAvailability
	} else {
		gaps = append(gaps, "Service availability target not defined")
	}
	if len(ex.SLA.ResponseTimes) > 0 {
		score.SLADefinition += weightResponseTimes
	} else {
		gaps = append(gaps, "Support response times not specified")
	}

	if ex.AccountInfo.BillingContact.Email != "" {
		score.ContactInformation += weightBillingEmail
	} else {
		gaps = append(gaps, "Billing contact email not found")
	}
	if ex.AccountInfo.BillingContact.Phone != "" {
		score.ContactInformation += weightBillingPhone
	} else {
		gaps = append(gaps, "Billing contact phone not found")
	}
	if ex.AccountInfo.AccountNumber != "" {
		score.ContactInformation += weightAccountNumber
	} else {
		gaps = append(gaps, "Account number not found")
	}

	score.Overall = score.PartyIdentification +
		score.FinancialCompleteness +
		score.PaymentTerms +
		score.SLADefinition +
		score.ContactInformation

	return score, gaps
}
