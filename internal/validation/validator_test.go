// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/basketrules/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct_GenerateRulesRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       models.GenerateRulesRequest
		wantField string
	}{
		{name: "empty uses defaults", req: models.GenerateRulesRequest{}},
		{name: "valid thresholds", req: models.GenerateRulesRequest{MinSupport: floatPtr(0.05), MinConfidence: floatPtr(0)}},
		{name: "support of one", req: models.GenerateRulesRequest{MinSupport: floatPtr(1)}},
		{name: "zero support", req: models.GenerateRulesRequest{MinSupport: floatPtr(0)}, wantField: "min_support"},
		{name: "support above one", req: models.GenerateRulesRequest{MinSupport: floatPtr(1.01)}, wantField: "min_support"},
		{name: "negative confidence", req: models.GenerateRulesRequest{MinConfidence: floatPtr(-0.1)}, wantField: "min_confidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("Field() = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestValidateStruct_CreateTransactionRequest(t *testing.T) {
	const validID = "5f1d7a8e9b0c1d2e3f4a5b6c"

	tests := []struct {
		name    string
		req     models.CreateTransactionRequest
		wantTag string
	}{
		{name: "valid", req: models.CreateTransactionRequest{ProductIDs: []string{validID}}},
		{name: "valid with id", req: models.CreateTransactionRequest{ID: "order-7", ProductIDs: []string{validID, strings.ToUpper(validID)}}},
		{name: "missing products", req: models.CreateTransactionRequest{}, wantTag: "required"},
		{name: "empty products", req: models.CreateTransactionRequest{ProductIDs: []string{}}, wantTag: "min"},
		{name: "bad product id", req: models.CreateTransactionRequest{ProductIDs: []string{validID, "not-an-id"}}, wantTag: "objectid"},
		{name: "id too long", req: models.CreateTransactionRequest{ID: strings.Repeat("x", 65), ProductIDs: []string{validID}}, wantTag: "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantTag == "" {
				if err != nil {
					t.Errorf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if got := err.Errors()[0].Tag(); got != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", got, tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_RuleQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   models.RuleQuery
		wantErr bool
	}{
		{name: "valid", query: models.RuleQuery{PageIndex: 1, PageSize: 20, Sort: models.RuleSortLift, Direction: "desc"}},
		{name: "page index zero", query: models.RuleQuery{PageIndex: 0, PageSize: 20}, wantErr: true},
		{name: "page size too large", query: models.RuleQuery{PageIndex: 1, PageSize: 501}, wantErr: true},
		{name: "unknown sort", query: models.RuleQuery{PageIndex: 1, PageSize: 20, Sort: "name"}, wantErr: true},
		{name: "bad direction", query: models.RuleQuery{PageIndex: 1, PageSize: 20, Direction: "sideways"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.query)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := ValidateStruct(&models.GenerateRulesRequest{MinSupport: floatPtr(2)})
		if err == nil {
			t.Fatal("ValidateStruct() = nil, want error")
		}
		apiErr := err.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
		}
		if apiErr.Message != "min_support must be less than or equal to 1" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "min_support" {
			t.Errorf("Details[field] = %v, want min_support", apiErr.Details["field"])
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := ValidateStruct(&models.GenerateRulesRequest{MinSupport: floatPtr(0), MinConfidence: floatPtr(3)})
		if err == nil {
			t.Fatal("ValidateStruct() = nil, want error")
		}
		apiErr := err.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details[fields] = %v, want two entries", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "; ") {
			t.Errorf("Message = %q, want joined messages", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q, want Validation failed", apiErr.Message)
		}
	})
}

func TestErrorMessages(t *testing.T) {
	err := ValidateStruct(&models.CreateTransactionRequest{ProductIDs: []string{"xyz"}})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	want := "product_ids[0] must be a 24 character hexadecimal id"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
