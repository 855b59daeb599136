package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesByCode(t *testing.T) {
	err := MissingColumn("movies.csv", "budget")
	assert.True(t, Is(err, ErrSchemaViolation))
	assert.False(t, Is(err, ErrSourceUnreadable))

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, Is(wrapped, ErrSchemaViolation))
	assert.Equal(t, CodeSchemaViolation, CodeOf(wrapped))
}

func TestMissingColumnCarriesContext(t *testing.T) {
	err := MissingColumn("movies.csv", "budget")
	assert.Equal(t, "budget", err.Detail("column"))
	assert.Equal(t, "movies.csv", err.Detail("file"))
	assert.Contains(t, err.Error(), `required column "budget" not found`)
	assert.Contains(t, err.Error(), "column=budget, file=movies.csv")
}

func TestSourceUnreadableUnwraps(t *testing.T) {
	err := SourceUnreadable("nope.csv", fs.ErrNotExist)
	require.True(t, Is(err, fs.ErrNotExist))
	assert.True(t, Is(err, ErrSourceUnreadable))
	assert.True(t, err.Code.Fatal())
}

func TestWithDoesNotMutateSentinel(t *testing.T) {
	_ = ErrEmptyResult.With("stage", "filter")
	assert.Empty(t, ErrEmptyResult.Details)
	assert.False(t, EmptyResult("filter").Code.Fatal())
}
