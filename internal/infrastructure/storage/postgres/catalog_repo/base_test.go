package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfebre/internal/core/apperror"
	"orfebre/internal/core/id"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", "test", []string{"id", "code", "name", "active"}, func() any { return nil })
}

func TestSelect_SQL(t *testing.T) {
	repo := newTestRepo()

	sql, _, err := repo.Select().
		Where(squirrel.Eq{"active": true}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, code, name, active FROM test_table WHERE active = $1", sql)
}

func TestDelete_SQL(t *testing.T) {
	repo := newTestRepo()
	entityID := id.New()

	q := repo.Builder().
		Delete(repo.tableName).
		Where("id = ?", entityID)

	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM test_table WHERE id = $1", sql)
	require.Len(t, args, 1)
	assert.Equal(t, entityID, args[0])
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		in   string
		want string
	}{
		{"", "name ASC"},
		{"name", "name ASC"},
		{"-name", "name DESC"},
		{"+code", "code ASC"},
		{"-code", "code DESC"},
	}
	for _, tt := range tests {
		got, err := repo.parseOrderBy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseOrderBy_RejectsUnknownColumn(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.parseOrderBy("name; DROP TABLE test_table")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = repo.parseOrderBy("-secret_col")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
