package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContract = `MASTER SERVICE AGREEMENT
Contract ID: SSA-2024-0042

Service Provider: Acme Cloud Services
123 Main Street
Austin, TX 78701
Phone: +1 512 555 0100
Email: sales@acmecloud.example

Customer: Globex Manufacturing
500 Industrial Way
Dayton, OH 45402
Phone: +1 937 555 0142
Email: ops@globex.example

Account Number: ACC-4471

Billing Contact: Jane Doe
Email: billing@globex.example
Phone: +1 937 555 0190

Banking Information:
Bank Name: First National Bank
Account Number: 99887766
Routing Number: 021000021

Total Contract Value: $242,500.00

Schedule of Fees:
Cloud Infrastructure hosting - $7,500.00 per month
Software Licenses - $9,000.00 per month
One-time Setup Fee - $14,500.00

Payment Terms: Net 30
Invoices are payable within 30 days of invoice date via ACH transfer.
Late payment charge: 1.5% monthly interest on unpaid balances.
All monthly recurring charges and the one-time setup fee are invoiced in USD.
This Agreement has an initial term of 24 months and shall automatically renew
for successive 12 month periods.

Service Level Agreement
The Provider guarantees 99.9% uptime availability.

Response Times:
Critical issues: 1 hour
High priority: 4 hours
Medium priority: 8 hours
Low priority: 24 hours

Support is available 24x7.
`

func TestHeuristicExtractParty(t *testing.T) {
	party, err := NewHeuristicExtractor().ExtractParty(context.Background(), sampleContract)
	require.NoError(t, err)

	assert.Equal(t, "Acme Cloud Services", party.ServiceProvider.Name)
	assert.Equal(t, "Austin, TX", party.ServiceProvider.Location)
	assert.Equal(t, "sales@acmecloud.example", party.ServiceProvider.Contact.Email)
	assert.Equal(t, "+1 512 555 0100", party.ServiceProvider.Contact.Phone)

	assert.Equal(t, "Globex Manufacturing", party.Customer.Name)
	assert.Equal(t, "Dayton, OH", party.Customer.Location)
	assert.Equal(t, "ops@globex.example", party.Customer.Contact.Email)
}

func TestHeuristicExtractPartyClientFallback(t *testing.T) {
	text := "Client: Initech LLC\nsupport@initech.example\n"

	party, err := NewHeuristicExtractor().ExtractParty(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "Initech LLC", party.Customer.Name)
	assert.Equal(t, "support@initech.example", party.Customer.Contact.Email)
}

func TestHeuristicExtractPartyRepsSection(t *testing.T) {
	text := `Service Provider: Acme Cloud Services

Authorized Representatives:
John Smith, Chief Executive Officer
Mary Johnson, Vice President of Operations
`

	// NER output depends on the model, so only the non-rep fields are pinned.
	party, err := NewHeuristicExtractor().ExtractParty(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, "Acme Cloud Services", party.ServiceProvider.Name)
}

func TestHeuristicExtractAccountInfo(t *testing.T) {
	info, err := NewHeuristicExtractor().ExtractAccountInfo(context.Background(), sampleContract)
	require.NoError(t, err)

	assert.Equal(t, "ACC-4471", info.AccountNumber)
	assert.Equal(t, "Jane Doe", info.BillingContact.Name)
	assert.Equal(t, "billing@globex.example", info.BillingContact.Email)
	assert.Equal(t, "+1 937 555 0190", info.BillingContact.Phone)
	assert.Equal(t, "First National Bank", info.BankingInformation.BankName)
	assert.Equal(t, "99887766", info.BankingInformation.AccountNumber)
	assert.Equal(t, "021000021", info.BankingInformation.RoutingNumber)
}

func TestHeuristicExtractFinancialDetails(t *testing.T) {
	fin, err := NewHeuristicExtractor().ExtractFinancialDetails(context.Background(), sampleContract)
	require.NoError(t, err)

	require.NotNil(t, fin.TotalValue)
	assert.Equal(t, 242500.0, *fin.TotalValue)
	assert.Equal(t, "USD", fin.Currency)

	require.Len(t, fin.LineItems, 3)
	assert.Equal(t, "Cloud Infrastructure hosting", fin.LineItems[0].Description)
	assert.Equal(t, 7500.0, fin.LineItems[0].Amount)
	assert.Equal(t, "monthly", fin.LineItems[0].Frequency)
	assert.Equal(t, 14500.0, fin.LineItems[2].Amount)
	assert.Equal(t, "one-time", fin.LineItems[2].Frequency)
}

func TestHeuristicExtractPaymentStructure(t *testing.T) {
	ps, err := NewHeuristicExtractor().ExtractPaymentStructure(context.Background(), sampleContract)
	require.NoError(t, err)

	assert.Equal(t, "Net 30", ps.Terms)
	assert.Equal(t, "ACH transfer", ps.Method)
	assert.Contains(t, ps.DueDate, "30 days")
	assert.Contains(t, ps.LateFees, "1.5%")
	assert.Equal(t, "monthly", ps.Frequency)
}

func TestHeuristicExtractRevenueClassification(t *testing.T) {
	rc, err := NewHeuristicExtractor().ExtractRevenueClassification(context.Background(), sampleContract)
	require.NoError(t, err)

	assert.True(t, rc.Recurring)
	assert.True(t, rc.OneTime)
	assert.True(t, rc.AutoRenewal)
	assert.False(t, rc.UsageBased)
	assert.Equal(t, "24 months", rc.ContractTerm)
}

func TestHeuristicExtractSLA(t *testing.T) {
	sla, err := NewHeuristicExtractor().ExtractSLA(context.Background(), sampleContract)
	require.NoError(t, err)

	assert.Equal(t, "99.9% uptime", sla.Availability)
	assert.Equal(t, map[string]string{
		"critical": "1 hour",
		"high":     "4 hours",
		"medium":   "8 hours",
		"low":      "24 hours",
	}, sla.ResponseTimes)
	assert.Equal(t, "24x7", sla.SupportHours)
}

func TestHeuristicExtractorEmptyText(t *testing.T) {
	h := NewHeuristicExtractor()
	ctx := context.Background()

	party, err := h.ExtractParty(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, party.ServiceProvider.Name)

	fin, err := h.ExtractFinancialDetails(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, fin.TotalValue)
	assert.Empty(t, fin.LineItems)

	sla, err := h.ExtractSLA(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, sla.Availability)
	assert.Nil(t, sla.ResponseTimes)
}
