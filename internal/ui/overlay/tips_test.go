package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryCategoryHasTipsAndIcon(t *testing.T) {
	total := 0
	for _, category := range tipCategories {
		assert.NotEmpty(t, breakTips[category], category)
		assert.NotEmpty(t, categoryIcons[category], category)
		total += len(breakTips[category])
	}
	assert.Equal(t, 20, total)
}

func TestTipPickerAvoidsRecentTips(t *testing.T) {
	// always draws the first category and its first remaining tip
	picker := &tipPicker{intn: func(int) int { return 0 }}

	seen := map[string]bool{}
	for range recentTips {
		tip := picker.next()
		assert.False(t, seen[tip.Text], "repeated %q", tip.Text)
		seen[tip.Text] = true
	}

	for _, text := range breakTips[TipMovement][:recentTips] {
		assert.True(t, seen[text], text)
	}

	// the sixth movement tip is still fresh
	tip := picker.next()
	assert.Equal(t, Tip{Category: TipMovement, Text: "Jump like a frog 5 times!"}, tip)
}

func TestTipPickerSkipsExhaustedCategory(t *testing.T) {
	picker := &tipPicker{intn: func(int) int { return 0 }}
	picker.recent = append([]string(nil), breakTips[TipMovement]...)

	tip := picker.next()
	require.Equal(t, TipRest, tip.Category)
	assert.Equal(t, "Close your eyes and take 3 deep breaths.", tip.Text)
	assert.Len(t, picker.recent, recentTips)
}

func TestTipLabelCarriesIcon(t *testing.T) {
	tip := Tip{Category: TipHydration, Text: "Drink a glass of water!"}
	assert.Equal(t, "💧 Drink a glass of water!", tip.Label())
}
