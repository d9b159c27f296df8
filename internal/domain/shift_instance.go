package domain

import (
	"time"
)

// ShiftInstance 是某个客户在某一天的一条已落库的排班实例。
// 实例落库后与产生它的班型彻底脱钩：修改班型不会回头改动已生成的实例，
// 只有显式的清理（pruning）或手工删除才会动它。
type ShiftInstance struct {
	ID                 int64       `json:"id"`
	ClientID           int64       `json:"clientID"`
	Date               time.Time   `json:"date"`
	StartTime          string      `json:"startTime"`
	EndTime            string      `json:"endTime"`
	RequiredStaffCount int32       `json:"requiredStaffCount"`
	StaffSlots         []StaffSlot `json:"staffSlots"`
	TwoPersonWork      bool        `json:"twoPersonWork"`
	ServiceCode        string      `json:"serviceCode"`
	CreatedAt          time.Time   `json:"createdAt"`
}
