// Package codes generates sequential product codes from grouping keys.
// A grouping key identifies a family of pieces (e.g. "anillo925"); each
// family has its own counter that never runs backwards or reuses values,
// even after products are deleted.
package codes

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"orfebre/internal/core/apperror"
)

// Prefix is the fixed leading segment of every generated code.
const Prefix = "PROD"

// scopePrefix namespaces product counters inside sys_sequences so they
// never collide with document number scopes.
const scopePrefix = "prod_"

var groupKeyPattern = regexp.MustCompile(`^[a-z0-9]{1,20}$`)

// Sequences draws the next value for a named counter.
// Each call is atomic with respect to concurrent callers.
type Sequences interface {
	NextVal(ctx context.Context, scope string) (int64, error)
}

// Generator produces product codes of the form PROD-<key>-<n>.
type Generator struct {
	seqs Sequences
}

// NewGenerator creates a code generator on top of a sequence store.
func NewGenerator(seqs Sequences) *Generator {
	return &Generator{seqs: seqs}
}

// NormalizeGroupKey trims and lowercases a raw grouping key and validates
// it against the allowed alphabet [a-z0-9]{1,20}.
func NormalizeGroupKey(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if !groupKeyPattern.MatchString(key) {
		return "", apperror.NewValidation("group key must be 1-20 lowercase letters or digits").
			WithDetail("groupKey", raw)
	}
	return key, nil
}

// Generate returns the next code for the grouping key.
// Counters start at 1 and are strictly sequential per key.
func (g *Generator) Generate(ctx context.Context, groupKey string) (string, error) {
	key, err := NormalizeGroupKey(groupKey)
	if err != nil {
		return "", err
	}

	n, err := g.seqs.NextVal(ctx, scopePrefix+key)
	if err != nil {
		return "", fmt.Errorf("next value for %q: %w", key, err)
	}

	return fmt.Sprintf("%s-%s-%d", Prefix, key, n), nil
}
