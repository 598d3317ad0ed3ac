package feeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) *time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestQueryKeyIsOrderIndependent(t *testing.T) {
	a := Query{Search: "yoga", Status: "active", From: date("2026-01-01"), To: date("2026-02-01")}
	b := Query{To: date("2026-02-01"), From: date("2026-01-01"), Status: "active", Search: "yoga"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestQueryKeyOmitsAbsentFields(t *testing.T) {
	key := Query{}.Key()
	assert.NotContains(t, key, "search")
	assert.NotContains(t, key, "from")
	assert.NotContains(t, key, "status")
	assert.Contains(t, key, "size=10", "page size always participates")
}

func TestQueryKeyChangesWithAnyField(t *testing.T) {
	base := Query{Search: "yoga"}
	assert.NotEqual(t, base.Key(), Query{Search: "pilates"}.Key())
	assert.NotEqual(t, base.Key(), Query{Search: "yoga", Status: "active"}.Key())
	assert.NotEqual(t, base.Key(), Query{Search: "yoga", From: date("2026-01-01")}.Key())
	assert.NotEqual(t, base.Key(), Query{Search: "yoga", PageSize: 25}.Key())
}

func TestQueryKeyNormalizesDefaultPageSize(t *testing.T) {
	assert.Equal(t, Query{}.Key(), Query{PageSize: DefaultPageSize}.Key())
	assert.Equal(t, Query{PageSize: -3}.Key(), Query{}.Key())
}

func TestQueryParams(t *testing.T) {
	q := Query{Search: "run", From: date("2026-03-01"), PageSize: 20}
	p := q.Params(2)

	assert.Equal(t, 2, p.Page.Number)
	assert.Equal(t, 20, p.Page.Size)
	assert.Equal(t, "run", p.Search)
	assert.Equal(t, "2026-03-01", p.From)
	assert.Empty(t, p.To, "absent dates are omitted")
	assert.Empty(t, p.Status)
}
