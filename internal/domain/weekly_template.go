package domain

import (
	"time"
)

// ClockLayout 是班次时刻字段（startTime / endTime）统一使用的格式。
const ClockLayout = "15:04:05"

// MaxStaffSlots 是一个班次最多可以分配的员工数。
const MaxStaffSlots = 3

// StaffSlot 是班次上的一个员工坑位。
type StaffSlot struct {
	StaffID  *int64 `json:"staffID"`
	Attended bool   `json:"attended"`
	RoleCode string `json:"roleCode"`
}

// WeeklyTemplate 是某个客户的每周循环班型。
// endTime <= startTime 表示跨天班次（例如 22:00:00 ~ 02:00:00）。
// nthWeeks 为空表示该星期几的每一次都命中，不做第 N 周限制。
type WeeklyTemplate struct {
	ID                 int64       `json:"id"`
	ClientID           int64       `json:"clientID"`
	Weekday            int32       `json:"weekday"` // 0 ~ 6，0 表示周日
	StartTime          string      `json:"startTime"`
	EndTime            string      `json:"endTime"`
	RequiredStaffCount int32       `json:"requiredStaffCount"`
	NthWeeks           []int32     `json:"nthWeeks"` // 子集 ⊆ {1..5}
	IsBiweekly         bool        `json:"isBiweekly"`
	EffectiveFrom      *time.Time  `json:"effectiveFrom"` // 闭区间，nil 表示不限
	EffectiveTo        *time.Time  `json:"effectiveTo"`
	IsActive           bool        `json:"isActive"`
	StaffSlots         []StaffSlot `json:"staffSlots"`
	TwoPersonWork      bool        `json:"twoPersonWork"`
	ServiceCode        string      `json:"serviceCode"`
	CreatedAt          time.Time   `json:"createdAt"`
	Version            int32       `json:"-"`
}
