package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerMasteryCapped(t *testing.T) {
	tr := NewTracker(nil)
	for i := 0; i < 10; i++ {
		before := tr.Mastery("p")
		tr.RecordCorrect("p")
		assert.GreaterOrEqual(t, tr.Mastery("p"), before)
		assert.LessOrEqual(t, tr.Mastery("p"), MaxMastery)
	}
	assert.Equal(t, MaxMastery, tr.Mastery("p"))
}

func TestTrackerCelebratesEveryThirdInARow(t *testing.T) {
	tr := NewTracker(nil)
	var got []bool
	for i := 0; i < 7; i++ {
		got = append(got, tr.RecordCorrect("p"))
	}
	assert.Equal(t, []bool{false, false, true, false, false, true, false}, got)

	tr.RecordIncorrect()
	assert.Equal(t, 0, tr.Streak())
	assert.False(t, tr.RecordCorrect("p"))
	assert.False(t, tr.RecordCorrect("p"))
	assert.True(t, tr.RecordCorrect("p"))
}

func TestTrackerIncorrectKeepsMastery(t *testing.T) {
	tr := NewTracker(nil)
	tr.RecordCorrect("p")
	tr.RecordCorrect("p")
	tr.RecordIncorrect()
	assert.Equal(t, 2, tr.Mastery("p"))
	assert.Equal(t, 0, tr.Streak())
}

func TestTrackerHookAndReset(t *testing.T) {
	var updates []int
	tr := NewTracker(func(id string, m int) {
		assert.Equal(t, "p", id)
		updates = append(updates, m)
	})
	tr.RecordCorrect("p")
	tr.RecordCorrect("p")
	tr.RecordIncorrect()
	assert.Equal(t, []int{1, 2}, updates)

	progress := tr.Progress()
	progress["p"] = 99
	assert.Equal(t, 2, tr.Mastery("p"), "Progress must return a copy")

	tr.Reset()
	assert.Equal(t, 0, tr.Mastery("p"))
	assert.Empty(t, tr.Progress())
}
