package recurrence

import (
	"fmt"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

const minutesPerDay = 24 * 60

// parseClock 把 "15:04:05" 格式的时刻换算成当天的第几分钟。
func parseClock(s string) (int, error) {
	t, err := time.Parse(domain.ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("时刻格式错误，应为 HH:MM:SS: %w", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// clockMinutes 只用于排序，调用前时刻都已经通过校验。
func clockMinutes(s string) int {
	m, _ := parseClock(s)
	return m
}

// Overlaps 判断同一天上的两个时间窗是否相交。
// 区间按半开处理，首尾相接不算相交。
// 结束时刻不晚于开始时刻的窗视为跨天班次，结束时刻加一天后再比较。
// 跨天班次溢出到第二天的凌晨段也要和对方窗比较（22:00~02:00 和 01:00~03:00
// 相交），所以还要对照对方窗平移一天后的位置；更远的跨日期比较不在约定内。
func Overlaps(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := parseClock(aStart)
	if err != nil {
		return false, err
	}
	ae, err := parseClock(aEnd)
	if err != nil {
		return false, err
	}
	bs, err := parseClock(bStart)
	if err != nil {
		return false, err
	}
	be, err := parseClock(bEnd)
	if err != nil {
		return false, err
	}

	if ae <= as {
		ae += minutesPerDay
	}
	if be <= bs {
		be += minutesPerDay
	}

	intersects := func(as, ae, bs, be int) bool {
		return as < be && bs < ae
	}

	return intersects(as, ae, bs, be) ||
		intersects(as, ae, bs+minutesPerDay, be+minutesPerDay) ||
		intersects(as+minutesPerDay, ae+minutesPerDay, bs, be), nil
}
