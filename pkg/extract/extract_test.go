package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		strategy Strategy
	}{
		{
			name:     "FencedBlock",
			text:     "Here is your map:\n```json\n{\"a\": [\"b\"]}\n```\nEnjoy!",
			want:     `{"a": ["b"]}`,
			strategy: StrategyFenced,
		},
		{
			name:     "FencedUppercaseLabel",
			text:     "```JSON\n{\"a\": 1}\n```",
			want:     `{"a": 1}`,
			strategy: StrategyFenced,
		},
		{
			name:     "FirstValidFencedBlockWins",
			text:     "```json\n{broken\n```\ntext\n```json\n{\"second\": true}\n```\n```json\n{\"third\": true}\n```",
			want:     `{"second": true}`,
			strategy: StrategyFenced,
		},
		{
			name:     "FencedBlockPreferredOverEarlierBraces",
			text:     "Example {not json} then\n```json\n{\"real\": [\"x\"]}\n```",
			want:     `{"real": ["x"]}`,
			strategy: StrategyFenced,
		},
		{
			name:     "BracesWhenNoFence",
			text:     "Sure! {\"Nature\": [\"roots\"], \"Cycle\": \"growth\"} Hope it helps.",
			want:     `{"Nature": ["roots"], "Cycle": "growth"}`,
			strategy: StrategyBraces,
		},
		{
			name:     "BracesWhenFenceInvalid",
			text:     "```json\nnot json at all\n```\n{\"a\": \"b\"}",
			want:     `{"a": "b"}`,
			strategy: StrategyBraces,
		},
		{
			name:     "BracesSpanIsGreedy",
			text:     "prefix {\"a\": {\"nested\": \"}\"}} suffix",
			want:     `{"a": {"nested": "}"}}`,
			strategy: StrategyBraces,
		},
		{
			name:     "UnlabelledFenceFallsToBraces",
			text:     "```\n{\"a\": \"b\"}\n```",
			want:     `{"a": "b"}`,
			strategy: StrategyBraces,
		},
		{
			name:     "BareObject",
			text:     "  {\"a\": \"b\"}\n",
			want:     `{"a": "b"}`,
			strategy: StrategyBraces,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract(tt.text)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if string(res.Raw) != tt.want {
				t.Errorf("Raw = %s, want %s", res.Raw, tt.want)
			}
			if res.Strategy != tt.strategy {
				t.Errorf("Strategy = %s, want %s", res.Strategy, tt.strategy)
			}
		})
	}
}

func TestExtractFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Empty", ""},
		{"PlainText", "I cannot help with that request."},
		{"NoBracesButJSONScalar", "42"},
		{"NoBracesButJSONArray", `["a", "b"]`},
		{"UnbalancedBraces", "here { is half"},
		{"ReversedBraces", "} backwards {"},
		{"InvalidEverywhere", "```json\n{nope}\n```\n{still: nope}"},
		{"FencedArrayOnly", "```json\n[1, 2]\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract(tt.text)
			if err == nil {
				t.Fatalf("Extract(%q) = %s, want failure", tt.text, res.Raw)
			}
			if !apperrors.Is(err, apperrors.ErrCodeExtractionFailed) {
				t.Errorf("code = %q, want EXTRACTION_FAILED", apperrors.GetCode(err))
			}
			if res.Raw != nil {
				t.Errorf("failure carried data: %s", res.Raw)
			}
		})
	}
}

func TestExtractNoBracesAlwaysFails(t *testing.T) {
	inputs := []string{
		"true", "null", `"a string"`, "1.5e3", "[[]]", "```json\n[]\n```",
		"Here are some ideas: roots, leaves, growth.",
	}
	for _, in := range inputs {
		if strings.ContainsAny(in, "{}") {
			t.Fatalf("bad fixture %q", in)
		}
		if _, err := Extract(in); !apperrors.Is(err, apperrors.ErrCodeExtractionFailed) {
			t.Errorf("Extract(%q) = %v, want EXTRACTION_FAILED", in, err)
		}
	}
}

func TestFencedRoundTrip(t *testing.T) {
	maps := []*catmap.Map{
		catmap.New(),
		catmap.New().Set("Nature", catmap.List("roots", "leaves")).Set("Cycle", catmap.Single("growth")),
		catmap.New().Set("z", catmap.Single(3)).Set("a", catmap.Single(true)).Set("m", catmap.List()),
		catmap.New().Set("Ciência", catmap.List("física", "química", "R&D <lab>")),
	}
	for i, m := range maps {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			data, err := catmap.MarshalIndent(m)
			if err != nil {
				t.Fatal(err)
			}
			text := "Here you go:\n\n```json\n" + string(data) + "```\n\nLet me know!"

			got, res, err := ExtractMap(text)
			if err != nil {
				t.Fatalf("ExtractMap: %v", err)
			}
			if res.Strategy != StrategyFenced {
				t.Errorf("Strategy = %s", res.Strategy)
			}
			if !got.Equal(m) {
				t.Errorf("round trip changed map: got keys %v, want %v", got.Keys(), m.Keys())
			}
		})
	}
}

func TestExtractMapShapeErrorIsDistinct(t *testing.T) {
	_, res, err := ExtractMap("```json\n{\"Nature\": {\"deep\": [\"x\"]}}\n```")
	if !apperrors.Is(err, apperrors.ErrCodeMalformedInput) {
		t.Fatalf("err = %v, want MALFORMED_INPUT", err)
	}
	if res.Strategy != StrategyFenced || !json.Valid(res.Raw) {
		t.Errorf("result not returned alongside shape error: %+v", res)
	}

	_, _, err = ExtractMap("no json here")
	if !apperrors.Is(err, apperrors.ErrCodeExtractionFailed) {
		t.Errorf("err = %v, want EXTRACTION_FAILED", err)
	}
}

func TestCandidatesOrder(t *testing.T) {
	text := "```json\n{\"a\": 1}\n```\nand {\"b\": 2}"
	got := candidates(text)
	want := []Strategy{StrategyFenced, StrategyBraces, StrategyWhole}
	if len(got) != len(want) {
		t.Fatalf("candidates = %+v", got)
	}
	for i, c := range got {
		if c.strategy != want[i] {
			t.Errorf("candidate %d = %s, want %s", i, c.strategy, want[i])
		}
	}

	bare := candidates("  {\"a\": 1}  ")
	if len(bare) != 1 || bare[0].strategy != StrategyBraces {
		t.Errorf("bare object candidates = %+v, want braces only", bare)
	}

	plain := candidates("no structure")
	if len(plain) != 1 || plain[0].strategy != StrategyWhole {
		t.Errorf("plain text candidates = %+v, want whole only", plain)
	}
}
