package revalidate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetly/internal/revalidate"
)

func entry(body string) revalidate.Entry {
	return revalidate.Entry{Status: 200, Body: []byte(body)}
}

func TestCache_GetSet(t *testing.T) {
	c := revalidate.NewCache(10, time.Minute)

	_, ok := c.Get("u1|/api/v1/budgets")
	assert.False(t, ok)

	c.Set("u1|/api/v1/budgets", entry("a"))

	got, ok := c.Get("u1|/api/v1/budgets")
	require.True(t, ok)
	assert.Equal(t, "a", string(got.Body))
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := revalidate.NewCache(2, time.Minute)

	c.Set("a", entry("a"))
	c.Set("b", entry("b"))
	_, _ = c.Get("a")
	c.Set("c", entry("c"))

	_, ok := c.Get("b")
	assert.False(t, ok)

	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestCache_Expires(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	c := revalidate.NewCache(10, time.Minute)
	c.SetClock(func() time.Time { return now })
	c.Set("a", entry("a"))
	c.Set("b", entry("b"))

	now = now.Add(2 * time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 0, c.Size())
}

func TestCache_Purge(t *testing.T) {
	keys := []string{
		revalidate.Key("u1", "/api/v1/budgets", ""),
		revalidate.Key("u1", "/api/v1/budgets/42/summary", "from=2024-01-01"),
		revalidate.Key("u2", "/api/v1/budgets/42/summary", ""),
		revalidate.Key("u1", "/api/v1/budgetsx", ""),
		revalidate.Key("u1", "/api/v1/categories", ""),
	}

	tests := []struct {
		prefix    string
		wantCount int
	}{
		{prefix: "/", wantCount: 5},
		{prefix: "/api/v1/budgets", wantCount: 3},
		{prefix: "/api/v1/budgets/42/", wantCount: 2},
		{prefix: "/api/v1/categories", wantCount: 1},
		{prefix: "/nothing", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			c := revalidate.NewCache(10, time.Minute)
			for _, k := range keys {
				c.Set(k, entry(k))
			}

			assert.Equal(t, tt.wantCount, c.Purge(tt.prefix))
			assert.Equal(t, len(keys)-tt.wantCount, c.Size())
		})
	}
}

func TestCache_SetIfCurrent(t *testing.T) {
	c := revalidate.NewCache(10, time.Minute)

	gen := c.Generation()
	c.Purge("/")

	assert.False(t, c.SetIfCurrent("a", entry("stale"), gen))
	assert.Equal(t, 0, c.Size())

	assert.True(t, c.SetIfCurrent("a", entry("fresh"), c.Generation()))
	assert.Equal(t, 1, c.Size())
}

func TestDecodeMessage(t *testing.T) {
	msg, err := revalidate.DecodeMessage([]byte(`{"path":"/","origin":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "/", msg.Path)

	_, err = revalidate.DecodeMessage([]byte(`{"origin":"x"}`))
	assert.Error(t, err)

	_, err = revalidate.DecodeMessage([]byte(`not json`))
	assert.Error(t, err)
}
