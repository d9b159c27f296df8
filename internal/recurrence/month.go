package recurrence

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// Month 表示一个目标月份。月内日期统一用 UTC 零点的 time.Time 表示纯日期，
// 时区只在入口处决定默认月份时出现，引擎内部不碰本地时钟。
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("月份格式错误，应为 YYYY-MM: %w", err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf 返回 t 所在的月份。
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First 返回当月 1 号。
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next 返回下一个月，和 First 搭配可以得到半开区间 [First, Next.First)。
func (m Month) Next() Month {
	t := m.First().AddDate(0, 1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// DaysIn 返回当月的天数。
func (m Month) DaysIn() int {
	return m.First().AddDate(0, 1, -1).Day()
}

// Date 返回当月第 day 天。
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// NthWeekOfMonth 返回 d 是当月第几个“星期 X”：1~7 号算第 1 个，
// 8~14 号算第 2 个，依此类推，29~31 号算第 5 个。
func NthWeekOfMonth(d time.Time) int32 {
	return int32((d.Day()-1)/7 + 1)
}
