package deploy

import (
	"fmt"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/recurrence"
)

// DeploymentService 是整个引擎里唯一会落库的路径，
// 固定按先批量生成、后清理失效实例的顺序执行。
//
// 对同一个客户同一个月的并发下发没有内部协调，调用方要自己串行化；
// 生成和清理之间也没有跨调用的事务，中间崩掉会留下已生成未清理的状态，
// 重跑一次下发即可恢复（清理是幂等的）。
type DeploymentService struct {
	templates TemplateStore
	shifts    ShiftStore
}

func NewDeploymentService(templates TemplateStore, shifts ShiftStore) *DeploymentService {
	return &DeploymentService{
		templates: templates,
		shifts:    shifts,
	}
}

// Deploy 先调用存储的按月批量生成，成功后再做第 N 周资格清理。
// 生成失败时清理不会执行；生成成功之后的任何失败都只算部分完成，
// 已知的插入数和删除数会随错误一起带回，部分成功对调用方是可见的。
func (s *DeploymentService) Deploy(clientID int64, month recurrence.Month, policy domain.ReconcilePolicy) (*domain.DeploymentResult, error) {
	if !domain.ValidPolicy(policy) {
		return &domain.DeploymentResult{Status: domain.DeploymentStatusFailed}, fmt.Errorf("未知的对账策略: %s", policy)
	}

	inserted, err := s.shifts.MaterializeMonth(clientID, month, policy)
	if err != nil {
		return &domain.DeploymentResult{Status: domain.DeploymentStatusFailed}, err
	}

	templates, err := s.templates.GetActiveWeeklyTemplates(clientID)
	if err != nil {
		return &domain.DeploymentResult{
			InsertedCount: inserted,
			Status:        domain.DeploymentStatusPartiallyDone,
		}, err
	}

	pruned, err := s.prune(clientID, month, templates)
	if err != nil {
		return &domain.DeploymentResult{
			InsertedCount: inserted,
			PrunedCount:   pruned,
			Status:        domain.DeploymentStatusPartiallyDone,
		}, err
	}

	return &domain.DeploymentResult{
		InsertedCount: inserted,
		PrunedCount:   pruned,
		Status:        domain.DeploymentStatusDone,
	}, nil
}
