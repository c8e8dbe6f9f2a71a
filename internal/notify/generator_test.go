package notify

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamtracker/domain"
)

func newGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	g, err := NewGenerator(DefaultCatalog(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return g
}

func task(id, description string) domain.Task {
	return domain.Task{ID: id, Owner: "Ann", Description: description, Points: 2, Category: domain.CategoryWork}
}

func TestSelectReminderContent_Deterministic(t *testing.T) {
	a := newGenerator(t, 42)
	b := newGenerator(t, 42)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.SelectReminderContent("Ann"), b.SelectReminderContent("Ann"))
	}
}

func TestSelectReminderContent_SameTone(t *testing.T) {
	g := newGenerator(t, 7)
	pools := map[Tone]TonePool{}
	for _, pool := range DefaultCatalog().Tones {
		pools[pool.Tone] = pool
	}

	for i := 0; i < 50; i++ {
		c := g.SelectReminderContent("Ann")
		pool, ok := pools[c.Tone]
		require.True(t, ok, "unknown tone %q", c.Tone)
		assert.Contains(t, pool.Messages, c.Body)
		assert.Contains(t, pool.SignOffs, c.SignOff)
		assert.Contains(t, c.Greeting, "Ann")
		assert.NotContains(t, c.Greeting, namePlaceholder)
	}
}

func TestSelectReminderContent_VariesAcrossSeeds(t *testing.T) {
	seen := map[Content]struct{}{}
	for seed := int64(1); seed <= 20; seed++ {
		seen[newGenerator(t, seed).SelectReminderContent("Ann")] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestNewGenerator_EmptyPools(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	_, err := NewGenerator(Catalog{}, rnd)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
	assert.ErrorIs(t, err, domain.ErrEmptyPool)

	catalog := DefaultCatalog()
	catalog.Tones[2].SignOffs = nil
	_, err = NewGenerator(catalog, rnd)
	assert.ErrorIs(t, err, domain.ErrEmptyPool)
	assert.Contains(t, err.Error(), string(TonePlayful))

	catalog = DefaultCatalog()
	catalog.PendingQuotes = nil
	_, err = NewGenerator(catalog, rnd)
	assert.ErrorIs(t, err, domain.ErrEmptyPool)

	_, err = NewGenerator(DefaultCatalog(), nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConfiguration))
}

func TestSummaryVariantFor(t *testing.T) {
	t1, t2 := task("1", "Write report"), task("2", "Review PR")

	assert.Equal(t, VariantCongratulations, SummaryVariantFor([]domain.Task{t1, t2}, []domain.Task{t1, t2}))
	assert.Equal(t, VariantPartial, SummaryVariantFor([]domain.Task{t1, t2}, []domain.Task{t1}))
	assert.Equal(t, VariantPartial, SummaryVariantFor(nil, nil))
}

func TestRenderDailySummary_Congratulations(t *testing.T) {
	g := newGenerator(t, 3)
	t1, t2 := task("1", "Write report"), task("2", "Review PR")

	html, err := g.RenderDailySummary("Ann", []domain.Task{t1, t2}, []domain.Task{t1, t2})

	require.NoError(t, err)
	assert.Contains(t, html, "Great Job, Ann!")
	assert.Contains(t, html, "✅ Write report")
	assert.Contains(t, html, "✅ Review PR")
	assert.NotContains(t, html, "Tasks you missed")
}

func TestRenderDailySummary_Partial(t *testing.T) {
	g := newGenerator(t, 3)
	t1, t2 := task("1", "Write report"), task("2", "Review PR")

	html, err := g.RenderDailySummary("Ann", []domain.Task{t1, t2}, []domain.Task{t1})

	require.NoError(t, err)
	assert.Contains(t, html, "Hey Ann, here")
	assert.Contains(t, html, "You completed 1 tasks.")
	assert.Contains(t, html, "✅ Write report")
	assert.Contains(t, html, "❌ Review PR")
	assert.Contains(t, html, "You have 1 tasks left to complete.")
	assert.NotContains(t, html, "❌ Write report")
}

func TestRenderDailySummary_NoTasks(t *testing.T) {
	g := newGenerator(t, 3)

	html, err := g.RenderDailySummary("Ann", nil, nil)

	require.NoError(t, err)
	assert.Contains(t, html, "You completed 0 tasks.")
	assert.Contains(t, html, "You have 0 tasks left to complete.")
	assert.NotContains(t, html, "Great Job")
}

func TestRenderDailySummary_EscapesDescriptions(t *testing.T) {
	g := newGenerator(t, 3)
	evil := task("1", "<script>alert(1)</script>")

	html, err := g.RenderDailySummary("Ann", []domain.Task{evil}, nil)

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.True(t, strings.Contains(html, "&lt;script&gt;"))
}

func TestRenderReminder(t *testing.T) {
	g := newGenerator(t, 9)
	content := Content{Tone: ToneFocus, Greeting: "Morning Ann.", Body: "Pick one thing.", SignOff: "Stay focused,"}

	html, err := g.RenderReminder(content, "https://tracker.example.com")

	require.NoError(t, err)
	assert.Contains(t, html, "Morning Ann.")
	assert.Contains(t, html, "Pick one thing.")
	assert.Contains(t, html, `href="https://tracker.example.com"`)

	html, err = g.RenderReminder(content, "")
	require.NoError(t, err)
	assert.NotContains(t, html, "href=")
}
