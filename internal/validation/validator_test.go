// SocialPulse - Social and On-Chain Company Metrics
// Copyright 2026 J. P. Carmona (jpcarmona)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jpcarmona/socialpulse

package validation

import (
	"strings"
	"testing"
)

type metricsRequest struct {
	Platform    string `validate:"required,platform"`
	Identifier  string `validate:"required"`
	CompanyName string `validate:"required"`
}

func TestValidateStructPasses(t *testing.T) {
	req := metricsRequest{Platform: "twitter", Identifier: "acme", CompanyName: "Acme"}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("expected valid request, got %v", err)
	}
}

func TestValidateStructUnknownPlatform(t *testing.T) {
	req := metricsRequest{Platform: "myspace", Identifier: "acme", CompanyName: "Acme"}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Platform") {
		t.Errorf("message should name the field: %q", apiErr.Message)
	}
}

func TestValidateStructMissingFields(t *testing.T) {
	err := ValidateStruct(&metricsRequest{Platform: "twitter"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error details should list fields")
	}
}

func TestPlatformRuleAcceptsAllSupported(t *testing.T) {
	for _, p := range []string{"linkedin", "twitter", "telegram", "medium", "onchain", "TWITTER"} {
		req := metricsRequest{Platform: p, Identifier: "x", CompanyName: "y"}
		if err := ValidateStruct(&req); err != nil {
			t.Errorf("platform %q should validate: %v", p, err)
		}
	}
}
