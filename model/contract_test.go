package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatusRecordJSON(t *testing.T) {
	st := StatusRecord{State: StatusProcessing, Progress: 30, CurrentStep: "party_extraction"}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if !strings.Contains(string(data), `"current_step":"party_extraction"`) {
		t.Errorf("Expected current_step in output, got %s", data)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("Expected error to be omitted while processing, got %s", data)
	}
}

func TestStatusRecordFailedJSON(t *testing.T) {
	st := StatusRecord{State: StatusFailed, Progress: 100, Error: "pdftotext failed"}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if !strings.Contains(string(data), `"error":"pdftotext failed"`) {
		t.Errorf("Expected error message in output, got %s", data)
	}
	if strings.Contains(string(data), `"current_step"`) {
		t.Errorf("Expected current_step to be omitted when failed, got %s", data)
	}
}

func TestFinancialDetailsTotalValueAbsent(t *testing.T) {
	var fd FinancialDetails
	if err := json.Unmarshal([]byte(`{"total_value": null, "currency": "USD"}`), &fd); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if fd.TotalValue != nil {
		t.Error("Expected null total_value to decode as absent")
	}
	if fd.Currency != "USD" {
		t.Errorf("Expected currency USD, got %s", fd.Currency)
	}
}
