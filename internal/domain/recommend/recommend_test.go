package recommend

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/match"
	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/domain/search/mode"
)

func person(name, role string) match.Match {
	return match.New("p-"+name, match.Person, 0.8, match.Metadata{Name: name, Role: role}, nil)
}

func company(name string) match.Match {
	return match.New("c-"+name, match.Company, 0.7, match.Metadata{Name: name}, nil)
}

func TestSynthesize_Example(t *testing.T) {
	matches := []match.Match{
		person("Jane Doe", "investor"),
		person("Sam Lee", "investor"),
		company("Acme"),
	}

	got := Synthesize(matches, "fintech startups in Boston", mode.Ranked)
	want := []string{
		"Consider reaching out to Jane Doe and Sam Lee for potential investment opportunities or partnerships in the Boston field.",
		"Also, keep an eye on Acme, as their activities could shape the landscape in the Boston field.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Synthesize mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_OthersOnly(t *testing.T) {
	matches := []match.Match{
		company("A"), company("B"), company("C"), company("D"), company("E"), company("F"), company("G"),
	}
	got := Synthesize(matches, "robotics", mode.Ranked)
	want := []string{
		"Consider reaching out to A and B, as well as C, D, E for potential opportunities.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Synthesize mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_SingleName(t *testing.T) {
	got := Synthesize([]match.Match{company("Solo")}, "", mode.Ranked)
	want := []string{"Consider reaching out to Solo for potential opportunities."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Synthesize mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_BucketPriority(t *testing.T) {
	matches := []match.Match{
		company("Acme"),
		person("Jane Doe", "Partner, VC"),
		company("Beta"),
		person("Sam Lee", "venture investor"),
		company("Gamma"),
	}
	got := Synthesize(matches, "climate", mode.Ranked)
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
	if !strings.Contains(got[0], "Jane Doe and Sam Lee") {
		t.Errorf("primary should name investors only: %q", got[0])
	}
	for _, other := range []string{"Acme", "Beta", "Gamma"} {
		if strings.Contains(got[0], other) {
			t.Errorf("primary names non-investor %q: %q", other, got[0])
		}
	}
	wantSecondary := "Also, keep an eye on Acme, Beta, and Gamma, as their activities could shape the landscape."
	if got[1] != wantSecondary {
		t.Errorf("secondary = %q, want %q", got[1], wantSecondary)
	}
}

func TestSynthesize_SecondaryTwoNames(t *testing.T) {
	matches := []match.Match{person("Jane", "investor"), company("A"), company("B")}
	got := Synthesize(matches, "", mode.Ranked)
	if len(got) != 2 || got[1] != "Also, keep an eye on A and B, as their activities could shape the landscape." {
		t.Errorf("got %v", got)
	}
}

func TestSynthesize_NoSecondaryWithoutInvestors(t *testing.T) {
	got := Synthesize([]match.Match{company("A"), person("Bob", "founder")}, "", mode.Ranked)
	if len(got) != 1 {
		t.Errorf("expected only a primary sentence, got %v", got)
	}
}

func TestSynthesize_FilterOnly(t *testing.T) {
	matches := []match.Match{person("Jane Doe", "investor"), company("Acme")}
	if got := Synthesize(matches, "fintech in Boston", mode.FilterOnly); len(got) != 0 {
		t.Errorf("FilterOnly returned %v", got)
	}
}

func TestSynthesize_NoUsableNames(t *testing.T) {
	matches := []match.Match{
		match.New("", match.Company, 0.5, match.Metadata{}, nil),
		match.New("  ", match.Person, 0.5, match.Metadata{Name: " ", Role: "investor"}, nil),
	}
	if got := Synthesize(matches, "anything", mode.Ranked); len(got) != 0 {
		t.Errorf("expected no sentences, got %v", got)
	}
	if got := Synthesize(nil, "anything", mode.Ranked); len(got) != 0 {
		t.Errorf("expected no sentences for nil matches, got %v", got)
	}
}

func TestBucket_DedupFirstWins(t *testing.T) {
	matches := []match.Match{
		company("Acme"),
		person("Acme", "investor"),
		match.New("id-only", match.Repository, 0.1, match.Metadata{}, nil),
		match.New("x", match.Person, 0.1, match.Metadata{Company: "Beta"}, nil),
		company("Beta"),
	}
	got := Bucket(matches)
	want := Buckets{Others: []string{"Acme", "id-only", "Beta"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bucket mismatch (-want +got):\n%s", diff)
	}
}

func TestContextPhrase(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"fintech startups in Boston", " in the Boston field"},
		{"AI companies in san francisco bay area, founded recently", " in the San Francisco Bay Area field"},
		{"investors in ai and ml; seed stage", " in the AI And ML field"},
		{"startups in climate tech. more", " in the Climate Tech field"},
		{"Startups IN Fintech", " in the Fintech field"},
		{"marketplaces in e-commerce", " in the E-commerce field"},
		{"founders in ai/ml", " in the Ai/ml field"},
		{"startups in münchen", " in the München field"},
		{"investing in", ""},
		{"startups in , nothing", ""},
		{"no preposition here", ""},
		{"inside information", ""},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			if got := ContextPhrase(tc.query); got != tc.want {
				t.Errorf("ContextPhrase(%q) = %q, want %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestJoinSerial(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"A"}, "A"},
		{[]string{"A", "B"}, "A and B"},
		{[]string{"A", "B", "C"}, "A, B, and C"},
	}
	for _, tc := range tests {
		if got := joinSerial(tc.in); got != tc.want {
			t.Errorf("joinSerial(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestSynthesize_Grounded checks that every name in the output comes from the input matches.
func TestSynthesize_Grounded(t *testing.T) {
	pool := []string{"Acme", "Beta Labs", "Jane Doe", "Sam Lee", "Orbit", "Nova", "Quill", "Zed"}
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(8)
		matches := make([]match.Match, 0, n)
		inputNames := make(map[string]bool)
		for i := 0; i < n; i++ {
			name := pool[rng.Intn(len(pool))]
			inputNames[name] = true
			if rng.Intn(2) == 0 {
				matches = append(matches, person(name, "investor"))
			} else {
				matches = append(matches, company(name))
			}
		}

		for _, s := range Synthesize(matches, "startups in Boston", mode.Ranked) {
			for _, name := range pool {
				if strings.Contains(s, name) && !inputNames[name] {
					t.Fatalf("iteration %d: sentence %q names %q absent from input", iter, s, name)
				}
			}
		}
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	matches := []match.Match{person("Jane", "investor"), company("A"), company("B")}
	first := fmt.Sprint(Synthesize(matches, "x in y", mode.Ranked))
	for i := 0; i < 10; i++ {
		if got := fmt.Sprint(Synthesize(matches, "x in y", mode.Ranked)); got != first {
			t.Fatalf("non-deterministic output: %q vs %q", got, first)
		}
	}
}
