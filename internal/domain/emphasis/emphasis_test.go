package emphasis

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Span
	}{
		{
			name: "bold and italic",
			in:   "Say **hi** to _Bob_",
			want: []Span{
				{Kind: Plain, Text: "Say "},
				{Kind: Bold, Text: "hi", Delim: "**"},
				{Kind: Plain, Text: " to "},
				{Kind: Italic, Text: "Bob", Delim: "_"},
			},
		},
		{
			name: "underscore bold",
			in:   "__Acme__ leads",
			want: []Span{
				{Kind: Bold, Text: "Acme", Delim: "__"},
				{Kind: Plain, Text: " leads"},
			},
		},
		{
			name: "star italic",
			in:   "an *early* bet",
			want: []Span{
				{Kind: Plain, Text: "an "},
				{Kind: Italic, Text: "early", Delim: "*"},
				{Kind: Plain, Text: " bet"},
			},
		},
		{
			name: "no emphasis",
			in:   "plain text",
			want: []Span{{Kind: Plain, Text: "plain text"}},
		},
		{
			name: "empty",
			in:   "",
			want: []Span{},
		},
		{
			name: "lone star stays literal",
			in:   "5 * 3 = 15",
			want: []Span{{Kind: Plain, Text: "5 * 3 = 15"}},
		},
		{
			name: "empty delimiters are literal",
			in:   "**",
			want: []Span{{Kind: Plain, Text: "**"}},
		},
		{
			name: "shortest run wins",
			in:   "*a* and *b*",
			want: []Span{
				{Kind: Italic, Text: "a", Delim: "*"},
				{Kind: Plain, Text: " and "},
				{Kind: Italic, Text: "b", Delim: "*"},
			},
		},
		{
			name: "earliest match wins over priority",
			in:   "_x_ **y**",
			want: []Span{
				{Kind: Italic, Text: "x", Delim: "_"},
				{Kind: Plain, Text: " "},
				{Kind: Bold, Text: "y", Delim: "**"},
			},
		},
		{
			name: "snake_case identifiers",
			in:   "see my_var_name",
			want: []Span{
				{Kind: Plain, Text: "see my"},
				{Kind: Italic, Text: "var", Delim: "_"},
				{Kind: Plain, Text: "name"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestRender_RoundTrip(t *testing.T) {
	fixed := []string{
		"",
		"*",
		"**",
		"***",
		"***a***",
		"**a*",
		"_a__",
		"__a_",
		"**bold** and __bold__ and *it* and _it_",
		"unterminated **bold",
		"line one\n*line* two",
		"emoji 🚀 **launch** ✨",
	}
	for _, s := range fixed {
		if got := Render(Tokenize(s)); got != s {
			t.Errorf("Render(Tokenize(%q)) = %q", s, got)
		}
	}

	alphabet := []rune{'a', 'b', ' ', '*', '_', '\n', 'é'}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		n := rng.Intn(16)
		buf := make([]rune, n)
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		s := string(buf)
		if got := Render(Tokenize(s)); got != s {
			t.Fatalf("round trip failed for %q: got %q", s, got)
		}
	}
}

func TestTokenize_NoEmptyPlainSpans(t *testing.T) {
	for _, s := range []string{"**a****b**", "*a*", "_a_*b*"} {
		for _, span := range Tokenize(s) {
			if span.Kind == Plain && span.Text == "" {
				t.Errorf("Tokenize(%q) emitted an empty plain span", s)
			}
		}
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText(Tokenize("Say **hi** to _Bob_"))
	if got != "Say hi to Bob" {
		t.Errorf("PlainText() = %q", got)
	}
}
