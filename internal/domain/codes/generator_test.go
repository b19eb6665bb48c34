package codes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
)

type memorySequences struct {
	vals map[string]int64
}

func (m *memorySequences) NextVal(ctx context.Context, scope string) (int64, error) {
	if m.vals == nil {
		m.vals = make(map[string]int64)
	}
	m.vals[scope]++
	return m.vals[scope], nil
}

func TestGenerate_Sequential(t *testing.T) {
	g := NewGenerator(&memorySequences{})
	ctx := context.Background()

	code, err := g.Generate(ctx, "anillo925")
	require.NoError(t, err)
	assert.Equal(t, "PROD-anillo925-1", code)

	code, err = g.Generate(ctx, "anillo925")
	require.NoError(t, err)
	assert.Equal(t, "PROD-anillo925-2", code)

	// A different key has its own counter.
	code, err = g.Generate(ctx, "collar")
	require.NoError(t, err)
	assert.Equal(t, "PROD-collar-1", code)
}

func TestGenerate_NormalizesKey(t *testing.T) {
	g := NewGenerator(&memorySequences{})

	code, err := g.Generate(context.Background(), "  Arete18K ")
	require.NoError(t, err)
	assert.Equal(t, "PROD-arete18k-1", code)
}

func TestNormalizeGroupKey_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"key-with-dash",
		"con espacios",
		"ñandu",
		"abcdefghijklmnopqrstu", // 21 chars
	}

	for _, raw := range cases {
		_, err := NormalizeGroupKey(raw)
		require.Error(t, err, "key %q", raw)
		assert.True(t, apperror.IsValidation(err), "key %q", raw)
	}
}

func TestNormalizeGroupKey_Boundary(t *testing.T) {
	key, err := NormalizeGroupKey("a1b2c3d4e5f6g7h8i9j0") // exactly 20
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f6g7h8i9j0", key)

	key, err = NormalizeGroupKey("x")
	require.NoError(t, err)
	assert.Equal(t, "x", key)
}
