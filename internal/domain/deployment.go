package domain

import (
	"time"
)

// ReconcilePolicy 决定生成的候选班次和已存在的实例如何共存。
type ReconcilePolicy string

const (
	// PolicySkipConflict 丢弃和已有实例冲突的候选，已有实例原样保留。
	PolicySkipConflict ReconcilePolicy = "skip_conflict"
	// PolicyOverwriteOnly 保留冲突候选并标记，已有实例由存储层决定是否覆盖。
	PolicyOverwriteOnly ReconcilePolicy = "overwrite_only"
	// PolicyDeleteMonthInsert 先清空当月实例，再插入所有候选。
	PolicyDeleteMonthInsert ReconcilePolicy = "delete_month_insert"
)

// ValidPolicy 判断 p 是否为已知的对账策略。
func ValidPolicy(p ReconcilePolicy) bool {
	switch p {
	case PolicySkipConflict, PolicyOverwriteOnly, PolicyDeleteMonthInsert:
		return true
	}
	return false
}

type RowAction string

const (
	ActionNew         RowAction = "new"
	ActionNewConflict RowAction = "new_conflict"
	ActionKeep        RowAction = "keep"
	ActionDelete      RowAction = "delete"
)

// PreviewRow 是预览结果中的一行，候选班次和已有实例合并排序后的统一视图。
type PreviewRow struct {
	Date               time.Time   `json:"date"`
	StartTime          string      `json:"startTime"`
	EndTime            string      `json:"endTime"`
	RequiredStaffCount int32       `json:"requiredStaffCount"`
	StaffSlots         []StaffSlot `json:"staffSlots"`
	TwoPersonWork      bool        `json:"twoPersonWork"`
	ServiceCode        string      `json:"serviceCode"`
	IsTemplate         bool        `json:"isTemplate"` // true 表示来自班型的候选，false 表示已落库实例
	Conflict           bool        `json:"conflict"`
	Action             RowAction   `json:"action"`
	InstanceID         *int64      `json:"instanceID"`
}

type DeploymentStatus string

const (
	DeploymentStatusDone          DeploymentStatus = "done"
	DeploymentStatusFailed        DeploymentStatus = "failed"
	DeploymentStatusPartiallyDone DeploymentStatus = "partially_done"
)

// DeploymentResult 是一次下发的结果。
// 下发失败时已知的部分计数也会带回，部分成功对调用方是可见的。
type DeploymentResult struct {
	InsertedCount int              `json:"insertedCount"`
	PrunedCount   int              `json:"prunedCount"`
	Status        DeploymentStatus `json:"status"`
}
