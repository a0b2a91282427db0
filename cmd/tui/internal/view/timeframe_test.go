package view_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fieldservice/cmd/tui/internal/view"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeframe_Range(t *testing.T) {
	// Thursday afternoon
	now := time.Date(2024, 5, 16, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tf       view.Timeframe
		wantFrom time.Time
		wantTo   time.Time
	}{
		{name: "this week starts on monday", tf: view.TimeframeThisWeek, wantFrom: date(2024, 5, 13), wantTo: date(2024, 5, 17)},
		{name: "this month", tf: view.TimeframeThisMonth, wantFrom: date(2024, 5, 1), wantTo: date(2024, 5, 17)},
		{name: "last month is whole", tf: view.TimeframeLastMonth, wantFrom: date(2024, 4, 1), wantTo: date(2024, 5, 1)},
		{name: "this quarter", tf: view.TimeframeThisQuarter, wantFrom: date(2024, 4, 1), wantTo: date(2024, 5, 17)},
		{name: "this year", tf: view.TimeframeThisYear, wantFrom: date(2024, 1, 1), wantTo: date(2024, 5, 17)},
		{name: "all time", tf: view.TimeframeAll, wantFrom: date(2000, 1, 1), wantTo: date(2024, 5, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.tf.Range(now)

			assert.Equal(t, tt.wantFrom, r.From)
			assert.Equal(t, tt.wantTo, r.To)
		})
	}
}

func TestTimeframe_RangeOnSunday(t *testing.T) {
	r := view.TimeframeThisWeek.Range(time.Date(2024, 5, 19, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, date(2024, 5, 13), r.From)
	assert.Equal(t, date(2024, 5, 20), r.To)
}

func typeText(p view.TimeframePicker, s string) view.TimeframePicker {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return p
}

func TestTimeframePicker_Custom(t *testing.T) {
	p := view.NewTimeframePicker(view.TimeframeAll)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, p.IsSelecting())

	p = typeText(p, "2024-03-01")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeText(p, "2024-03-31")

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(view.TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, date(2024, 3, 1), msg.Range.From)
	assert.Equal(t, date(2024, 4, 1), msg.Range.To, "the end day is included")
}

func TestTimeframePicker_CustomReversed(t *testing.T) {
	p := view.NewTimeframePicker(view.TimeframeCustom)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = typeText(p, "2024-03-31")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeText(p, "2024-03-01")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, p.View(), "end date is before start date")
}

func TestTimeframePicker_EscReturnsToList(t *testing.T) {
	p := view.NewTimeframePicker(view.TimeframeCustom)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, p.IsSelecting())

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.IsSelecting())
}
