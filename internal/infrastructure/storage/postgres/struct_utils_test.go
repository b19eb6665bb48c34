package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orfebre/internal/core/entity"
	"orfebre/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Phone    string `db:"phone" json:"phone"`
	Internal string `db:"-" json:"-"`
	NoTag    string
}

func TestExtractDBColumns_EmbeddedStructs(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{"id", "version", "code", "name", "active", "phone"}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Internal")
	assert.NotContains(t, cols, "NoTag")
}

func TestStructToMap_EmbeddedStructs(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			Code:   "CLI-001",
			Name:   "Rosa Quispe",
			Active: true,
		},
		Phone:    "987654321",
		Internal: "hidden",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "CLI-001", m["code"])
	assert.Equal(t, "Rosa Quispe", m["name"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, "987654321", m["phone"])

	_, hasInternal := m["-"]
	assert.False(t, hasInternal)
}
