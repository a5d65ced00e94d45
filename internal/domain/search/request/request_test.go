package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/query"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New(query.Normalize("fintech startups"), "", 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "fintech startups" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Mode() != mode.Ranked {
		t.Errorf("Mode() = %q, want ranked (default)", r.Mode())
	}
	if r.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", r.TopK(), DefaultTopK)
	}
	if r.FilterType() != "" || r.Role() != "" {
		t.Errorf("unexpected filter %q/%q", r.FilterType(), r.Role())
	}
}

func TestNew_NormalizedText(t *testing.T) {
	r, err := New(query.Normalize("companies from w21"), mode.FilterOnly, 5, match.Company)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "companies from Winter 2021" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.Mode() != mode.FilterOnly {
		t.Errorf("Mode() = %q", r.Mode())
	}
	if r.FilterType() != match.Company {
		t.Errorf("FilterType() = %q", r.FilterType())
	}
}

func TestNew_TopKClamped(t *testing.T) {
	r, err := New(query.Normalize("q"), "", 500, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TopK() != MaxTopK {
		t.Errorf("TopK() = %d, want %d", r.TopK(), MaxTopK)
	}
	r, _ = New(query.Normalize("q"), "", -3, "")
	if r.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", r.TopK(), DefaultTopK)
	}
}

func TestNew_InvestorFacet(t *testing.T) {
	tests := []struct {
		name       string
		filterType match.Type
		wantType   match.Type
		wantRole   string
	}{
		{"unfiltered", "", match.Person, query.InvestorRole},
		{"person filter", match.Person, match.Person, query.InvestorRole},
		{"company filter wins", match.Company, match.Company, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(query.Normalize("vc firms in fintech"), "", 0, tc.filterType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.FilterType() != tc.wantType {
				t.Errorf("FilterType() = %q, want %q", r.FilterType(), tc.wantType)
			}
			if r.Role() != tc.wantRole {
				t.Errorf("Role() = %q, want %q", r.Role(), tc.wantRole)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		m          mode.Mode
		filterType match.Type
	}{
		{"empty", "", "", ""},
		{"blank", "   ", "", ""},
		{"too long", strings.Repeat("a", MaxQueryLength+1), "", ""},
		{"bad mode", "q", mode.Mode("hybrid"), ""},
		{"bad filter", "q", "", match.Type("Product")},
		{"unknown filter", "q", "", match.Unknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(query.Normalize(tc.raw), tc.m, 0, tc.filterType)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestNew_MaxLengthAccepted(t *testing.T) {
	if _, err := New(query.Normalize(strings.Repeat("a", MaxQueryLength)), "", 0, ""); err != nil {
		t.Errorf("query at the limit rejected: %v", err)
	}
}
