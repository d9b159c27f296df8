package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-07")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2026, Month: time.July}, m)

	for _, bad := range []string{"", "2026-7", "2026/07", "202607", "abc"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, "输入: %q", bad)
	}
}

func TestMonthString(t *testing.T) {
	assert.Equal(t, "2026-07", Month{Year: 2026, Month: time.July}.String())
	assert.Equal(t, "0999-01", Month{Year: 999, Month: time.January}.String())
}

func TestMonthNext(t *testing.T) {
	assert.Equal(t, Month{Year: 2026, Month: time.August}, Month{Year: 2026, Month: time.July}.Next())
	// 跨年
	assert.Equal(t, Month{Year: 2027, Month: time.January}, Month{Year: 2026, Month: time.December}.Next())
}

func TestMonthDaysIn(t *testing.T) {
	assert.Equal(t, 31, Month{Year: 2026, Month: time.July}.DaysIn())
	assert.Equal(t, 30, Month{Year: 2026, Month: time.June}.DaysIn())
	assert.Equal(t, 28, Month{Year: 2026, Month: time.February}.DaysIn())
	// 闰年二月
	assert.Equal(t, 29, Month{Year: 2028, Month: time.February}.DaysIn())
}

func TestNthWeekOfMonth(t *testing.T) {
	m := Month{Year: 2026, Month: time.July}

	cases := map[int]int32{
		1:  1,
		7:  1,
		8:  2,
		14: 2,
		15: 3,
		28: 4,
		29: 5,
		31: 5,
	}
	for day, want := range cases {
		assert.Equal(t, want, NthWeekOfMonth(m.Date(day)), "day %d", day)
	}
}
