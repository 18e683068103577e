package overlay

import "math/rand/v2"

// TipCategory groups break suggestions by what the child does.
type TipCategory string

const (
	TipMovement  TipCategory = "movement"
	TipRest      TipCategory = "rest"
	TipHydration TipCategory = "hydration"
	TipEyes      TipCategory = "eyes"
	TipFun       TipCategory = "fun"
)

// Tip is one break suggestion.
type Tip struct {
	Category TipCategory
	Text     string
}

var tipCategories = []TipCategory{TipMovement, TipRest, TipHydration, TipEyes, TipFun}

var breakTips = map[TipCategory][]string{
	TipMovement: {
		"Stand up and stretch up high!",
		"Do 10 jumping jacks!",
		"Dance to your favourite song!",
		"Touch your toes 5 times!",
		"Spin your arms like a windmill!",
		"Jump like a frog 5 times!",
	},
	TipRest: {
		"Close your eyes and take 3 deep breaths.",
		"Look out of the window and find something green.",
		"Sit down and relax your shoulders.",
		"Give a great big yawn!",
	},
	TipHydration: {
		"Drink a glass of water!",
		"Water time. Have you had some today?",
		"Take your water bottle for a refill.",
	},
	TipEyes: {
		"Look at something far away for 20 seconds.",
		"Blink slowly 10 times.",
		"Close your eyes and count to 20.",
	},
	TipFun: {
		"Make a funny face!",
		"Give someone at home a hug!",
		"Tell yourself a joke!",
		"Give the mirror a big smile!",
	},
}

var categoryIcons = map[TipCategory]string{
	TipMovement:  "🏃",
	TipRest:      "😌",
	TipHydration: "💧",
	TipEyes:      "👀",
	TipFun:       "😄",
}

// recentTips is how many shown tips are kept out of the draw.
const recentTips = 5

// tipPicker draws a random category, then a random tip from it that was
// not shown recently. A category whose tips are all recent is skipped.
type tipPicker struct {
	intn   func(n int) int
	recent []string
}

func newTipPicker() *tipPicker {
	return &tipPicker{intn: rand.IntN}
}

func (picker *tipPicker) next() Tip {
	categories := append([]TipCategory(nil), tipCategories...)
	for len(categories) > 0 {
		index := picker.intn(len(categories))
		category := categories[index]

		var fresh []string
		for _, text := range breakTips[category] {
			if !picker.isRecent(text) {
				fresh = append(fresh, text)
			}
		}
		if len(fresh) == 0 {
			categories = append(categories[:index], categories[index+1:]...)
			continue
		}

		tip := Tip{Category: category, Text: fresh[picker.intn(len(fresh))]}
		picker.remember(tip.Text)
		return tip
	}

	// every tip is recent; start over
	picker.recent = nil
	return picker.next()
}

func (picker *tipPicker) isRecent(text string) bool {
	for _, seen := range picker.recent {
		if seen == text {
			return true
		}
	}
	return false
}

func (picker *tipPicker) remember(text string) {
	picker.recent = append(picker.recent, text)
	if len(picker.recent) > recentTips {
		picker.recent = picker.recent[len(picker.recent)-recentTips:]
	}
}

// Label renders a tip with its category icon.
func (tip Tip) Label() string {
	return categoryIcons[tip.Category] + " " + tip.Text
}
