package correction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_CorrectedVersionQuote(t *testing.T) {
	res := Extract(`Good try! Corrected version: "I am fine." The verb "to be" takes "am" with "I".`, "I are fine.")

	assert.True(t, res.HasErrors)
	assert.Equal(t, "I am fine.", res.CorrectedText)
}

func TestExtract_NoMarkers(t *testing.T) {
	res := Extract("Great sentence, it sounds natural.", "I am fine.")

	assert.False(t, res.HasErrors)
	assert.Equal(t, "I am fine.", res.CorrectedText)
	assert.Equal(t, LooksCorrect, res.Explanation)
	assert.NotNil(t, res.Errors)
	assert.Empty(t, res.Errors)
}

func TestExtract_StrategyOrder(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "labelled quote wins over should be",
			reply: `It should be "She goes home". Corrected: "She goes home every day."`,
			want:  "She goes home every day.",
		},
		{
			name:  "should be",
			reply: `The verb is wrong, it should be "She goes home".`,
			want:  "She goes home",
		},
		{
			name:  "correction label",
			reply: `There is an error. Correction: "They are happy."`,
			want:  "They are happy.",
		},
		{
			name:  "unquoted labelled line",
			reply: "Corrected sentence: We were late yesterday.\nThe past tense is needed.",
			want:  "We were late yesterday.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.reply, "original").CorrectedText)
		})
	}
}

func TestExtract_ErrorList(t *testing.T) {
	reply := `Corrected: "He has two brothers and he likes football."
Errors:
- "have" should be "has" with he
- ok
- "like" should be "likes" in third person
- missing article before the noun phrase here
- a fourth detailed mistake that must be dropped
`
	res := Extract(reply, "He have two brothers and he like football.")

	assert.Equal(t, []string{
		`"have" should be "has" with he`,
		`"like" should be "likes" in third person`,
		"missing article before the noun phrase here",
	}, res.Errors)
}

func TestExtract_ErrorLengthFilter(t *testing.T) {
	long := strings.Repeat("x", 201)
	reply := "There are mistakes:\n1. short\n2. " + long + "\n3. Use the past tense here."

	res := Extract(reply, "I go yesterday.")

	assert.Equal(t, []string{"Use the past tense here."}, res.Errors)
}

func TestExtract_ErrorLengthCountsCharacters(t *testing.T) {
	// 5 characters in 15 bytes, and 90 characters in 270 bytes.
	short := "主語と動詞"
	medium := "間違い" + strings.Repeat("あ", 87)
	tooLong := strings.Repeat("語", 201)
	reply := "There are mistakes:\n- " + short + "\n- " + medium + "\n- " + tooLong + "\n"

	res := Extract(reply, "私は学生だった。")

	assert.Equal(t, []string{medium}, res.Errors)
}

func TestExtract_FallbackDictionary(t *testing.T) {
	res := Extract("There is a small mistake with the verb.", "Today I are tired and he have a cold.")

	assert.True(t, res.HasErrors)
	assert.Equal(t, "Today I am tired and he has a cold.", res.CorrectedText)
}

func TestExtract_NothingExtracted(t *testing.T) {
	res := Extract("You could change the tone a bit.", "Give me the report.")

	assert.True(t, res.HasErrors)
	assert.Equal(t, "Give me the report.", res.CorrectedText)
	assert.Equal(t, NotExtracted, res.Explanation)
	assert.Empty(t, res.Errors)
}

func TestExtract_MarkersAreCaseInsensitive(t *testing.T) {
	res := Extract(`MISTAKE found. Should be: "I went home."`, "I goed home.")

	assert.True(t, res.HasErrors)
	assert.Equal(t, "I went home.", res.CorrectedText)
}
