package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"完全相同", "09:00:00", "10:00:00", "09:00:00", "10:00:00", true},
		{"部分相交", "09:00:00", "10:00:00", "09:30:00", "10:30:00", true},
		{"包含", "09:00:00", "12:00:00", "10:00:00", "11:00:00", true},
		{"首尾相接不算相交", "09:00:00", "10:00:00", "10:00:00", "11:00:00", false},
		{"完全分离", "09:00:00", "10:00:00", "14:00:00", "15:00:00", false},
		{"跨天撞上当天晚间", "22:00:00", "02:00:00", "21:00:00", "23:00:00", true},
		{"跨天撞上次日凌晨", "22:00:00", "02:00:00", "01:00:00", "03:00:00", true},
		{"跨天不碰次日清晨", "22:00:00", "02:00:00", "03:30:00", "04:00:00", false},
		{"跨天首尾相接", "22:00:00", "02:00:00", "02:00:00", "03:00:00", false},
		{"两个跨天窗", "22:00:00", "02:00:00", "23:00:00", "01:00:00", true},
		{"起止相同视为全天", "00:00:00", "00:00:00", "12:00:00", "13:00:00", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Overlaps(c.aStart, c.aEnd, c.bStart, c.bEnd)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)

			// 相交判定必须是对称的
			sym, err := Overlaps(c.bStart, c.bEnd, c.aStart, c.aEnd)
			require.NoError(t, err)
			assert.Equal(t, got, sym, "对称性不成立")
		})
	}
}

func TestOverlapsInvalidClock(t *testing.T) {
	_, err := Overlaps("9:00", "10:00:00", "09:00:00", "10:00:00")
	assert.Error(t, err)

	_, err = Overlaps("09:00:00", "10:00:00", "09:00:00", "25:00:00")
	assert.Error(t, err)
}
