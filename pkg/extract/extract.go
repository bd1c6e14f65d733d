// Package extract recovers a JSON object from free-text model output.
//
// Language models asked for JSON rarely return only JSON. [Extract] tries,
// in order:
//
//  1. each fenced code block labelled json (```json ... ```), first to last
//  2. the span from the first '{' to the last '}' in the text
//  3. the whole text
//
// The first candidate that is a well-formed JSON object wins. When none is,
// Extract returns an error coded EXTRACTION_FAILED; it never substitutes an
// empty document. The extractor checks syntax only: whether the object is a
// valid category map is decided by [catmap.Parse], which [ExtractMap] chains
// for convenience.
package extract

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// Strategy names the fallback that produced a result.
type Strategy string

const (
	StrategyFenced Strategy = "fenced"
	StrategyBraces Strategy = "braces"
	StrategyWhole  Strategy = "whole"
)

// Result is a recovered JSON object.
type Result struct {
	Raw      json.RawMessage `json:"raw"`
	Strategy Strategy        `json:"strategy"`
}

var fencedRe = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// Extract returns the first well-formed JSON object found in text.
func Extract(text string) (Result, error) {
	for _, c := range candidates(text) {
		if raw, ok := object(c.text); ok {
			return Result{Raw: raw, Strategy: c.strategy}, nil
		}
	}
	return Result{}, apperrors.New(apperrors.ErrCodeExtractionFailed,
		"no JSON object found in %d bytes of response text", len(text))
}

type candidate struct {
	strategy Strategy
	text     string
}

// candidates lists the spans to try, in fallback order. The whole text is
// skipped when it is the brace span up to surrounding whitespace.
func candidates(text string) []candidate {
	var out []candidate
	for _, m := range fencedRe.FindAllStringSubmatch(text, -1) {
		out = append(out, candidate{StrategyFenced, m[1]})
	}
	span := ""
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		span = text[start : end+1]
		out = append(out, candidate{StrategyBraces, span})
	}
	if strings.TrimSpace(text) != span {
		out = append(out, candidate{StrategyWhole, text})
	}
	return out
}

// ExtractMap extracts a JSON object from text and parses it as a category
// map. Extraction failures are coded EXTRACTION_FAILED; objects of the wrong
// shape are coded MALFORMED_INPUT.
func ExtractMap(text string) (*catmap.Map, Result, error) {
	res, err := Extract(text)
	if err != nil {
		return nil, Result{}, err
	}
	m, err := catmap.Parse(res.Raw)
	if err != nil {
		return nil, res, err
	}
	return m, res, nil
}

// object reports whether s, trimmed, is a single JSON object.
func object(s string) (json.RawMessage, bool) {
	b := bytes.TrimSpace([]byte(s))
	if len(b) == 0 || b[0] != '{' || !json.Valid(b) {
		return nil, false
	}
	return json.RawMessage(b), true
}
