// Package instruments maps short camera codes to the catalog's search tokens.
package instruments

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"pru/pkg/errors"
)

// Map is an immutable table from upper-case camera code to one or more
// API search tokens. The zero value resolves nothing.
type Map struct {
	entries map[string][]string
}

// New builds a Map from a code table. Codes are normalized to upper case.
func New(table map[string][]string) Map {
	entries := make(map[string][]string, len(table))
	for code, tokens := range table {
		entries[strings.ToUpper(strings.TrimSpace(code))] = append([]string(nil), tokens...)
	}
	return Map{entries: entries}
}

// Resolve expands codes into search tokens in input order, dropping
// duplicate tokens. Matching is case-insensitive. Any unknown code fails
// the whole batch.
func (m Map) Resolve(codes []string) ([]string, error) {
	var tokens []string
	seen := make(map[string]bool)

	for _, code := range codes {
		expanded, ok := m.entries[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			return nil, errors.InvalidInstrument(code)
		}
		for _, tok := range expanded {
			if !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
	}

	return tokens, nil
}

// Known returns the supported codes in sorted order.
func (m Map) Known() []string {
	codes := make([]string, 0, len(m.entries))
	for code := range m.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Tokens returns the tokens a single code expands to.
func (m Map) Tokens(code string) ([]string, bool) {
	tokens, ok := m.entries[strings.ToUpper(code)]
	return append([]string(nil), tokens...), ok
}

// Print writes one "code: tokens" line per supported code.
func (m Map) Print(w io.Writer) error {
	for _, code := range m.Known() {
		if _, err := fmt.Fprintf(w, "%-4s %s\n", code, strings.Join(m.entries[code], ", ")); err != nil {
			return err
		}
	}
	return nil
}
