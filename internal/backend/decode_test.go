package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePageBareArray(t *testing.T) {
	raw := []byte(`[{"id":"rt1","name":"Like"},{"id":"rt2","name":"Support"}]`)

	items, info, err := decodePage[ReactionType](raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "rt1", items[0].ID)
	assert.False(t, info.HasTotals)
}

func TestDecodePageItemsEnvelope(t *testing.T) {
	raw := []byte(`{
		"items": [{"id":"p1"},{"id":"p2"}],
		"totalPages": 3,
		"totalCount": 25
	}`)

	items, info, err := decodePage[Post](raw)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.True(t, info.HasTotals)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 25, info.TotalCount)
}

func TestDecodePageSnakeCaseTotals(t *testing.T) {
	raw := []byte(`{"items": [], "total_pages": 1, "total_count": 0}`)

	items, info, err := decodePage[Post](raw)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, info.HasTotals)
	assert.Equal(t, 1, info.TotalPages)
}

func TestDecodePageNamedCollectionField(t *testing.T) {
	raw := []byte(`{"reactions": [{"postId":"p1","userId":"u1","typeId":"like"}]}`)

	items, info, err := decodePage[Reaction](raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "u1", items[0].UserID)
	assert.False(t, info.HasTotals)
}

func TestDecodePageItemsFieldWinsOverOtherArrays(t *testing.T) {
	raw := []byte(`{"tags": ["a","b"], "items": [{"id":"p1"}]}`)

	items, _, err := decodePage[Post](raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
}

func TestDecodePageDataWrapped(t *testing.T) {
	raw := []byte(`{"data": {"items": [{"id":"g1"}], "totalPages": 2, "totalCount": 12}}`)

	items, info, err := decodePage[Group](raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, info.TotalPages)
}

func TestDecodePageDataHoldingArray(t *testing.T) {
	raw := []byte(`{"data": [{"id":"r1","label":"Spam"}]}`)

	items, _, err := decodePage[ReportReason](raw)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Spam", items[0].Label)
}

func TestDecodePageAmbiguousEnvelope(t *testing.T) {
	raw := []byte(`{"posts": [], "comments": []}`)

	_, _, err := decodePage[Post](raw)
	assert.Error(t, err, "two array fields and no items key is ambiguous")
}

func TestDecodePageRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "null", `"nope"`, `{"count": 3}`} {
		_, _, err := decodePage[Post]([]byte(raw))
		assert.Error(t, err, "input %q", raw)
	}
}
