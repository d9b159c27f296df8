package deploy

import (
	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/recurrence"
)

// PreviewService 是只读编排：读班型 → 展开 → 读当月实例 → 对账分类。
// 全程不落库，相同状态下反复调用返回完全一致的行序列。
type PreviewService struct {
	templates TemplateStore
	shifts    ShiftStore
}

func NewPreviewService(templates TemplateStore, shifts ShiftStore) *PreviewService {
	return &PreviewService{
		templates: templates,
		shifts:    shifts,
	}
}

func (s *PreviewService) Preview(clientID int64, month recurrence.Month, policy domain.ReconcilePolicy, recurrenceEnabled bool) ([]domain.PreviewRow, error) {
	templates, err := s.templates.GetActiveWeeklyTemplates(clientID)
	if err != nil {
		return nil, err
	}

	cands := recurrence.Evaluate(templates, month, recurrenceEnabled)

	existing, err := s.shifts.GetShiftInstancesByMonth(clientID, month)
	if err != nil {
		return nil, err
	}

	return recurrence.Reconcile(cands, existing, policy)
}
