package deploy

import (
	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/recurrence"
)

// TemplateStore 提供某个客户当前生效的班型。
type TemplateStore interface {
	GetActiveWeeklyTemplates(clientID int64) ([]*domain.WeeklyTemplate, error)
}

// ShiftStore 提供排班实例的读取、按月批量生成和批量删除。
// MaterializeMonth 负责真正把候选插进存储，按策略处理已有实例；
// 是否在一个事务里完成由存储实现自己决定。
type ShiftStore interface {
	GetShiftInstancesByMonth(clientID int64, month recurrence.Month) ([]*domain.ShiftInstance, error)
	MaterializeMonth(clientID int64, month recurrence.Month, policy domain.ReconcilePolicy) (int, error)
	DeleteShiftInstances(ids []int64) error
}
