package deploy

import (
	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/recurrence"
)

// PruneBatchSize 是一次删除请求里最多包含的实例数。
// 分批是为了让每一次存储调用都落在协作方自己的超时预算内。
const PruneBatchSize = 100

type pruneKey struct {
	weekday            int32
	startTime          string
	requiredStaffCount int32
}

// prune 重新校验当月每一条已落库实例的第 N 周资格，删掉不再命中的。
//
// 只有既是隔周又带非空 nthWeeks 的班型才参与：nthWeeks 为空意味着不限周次，
// 没有可清理的依据。多个班型落在同一个 (weekday, startTime, requiredStaffCount)
// 键上时资格取并集。键没有对应班型的实例不在清理范围内，原样保留。
//
// 删除按 PruneBatchSize 分批，单批内整体成败；某一批失败就停止后续批次，
// 已删掉的批次不回滚，返回值带上截至失败时的删除数。
func (s *DeploymentService) prune(clientID int64, month recurrence.Month, templates []*domain.WeeklyTemplate) (int, error) {
	eligible := make(map[pruneKey]map[int32]struct{})
	for _, t := range templates {
		if !t.IsBiweekly || len(t.NthWeeks) == 0 {
			continue
		}
		key := pruneKey{
			weekday:            t.Weekday,
			startTime:          t.StartTime,
			requiredStaffCount: t.RequiredStaffCount,
		}
		if _, ok := eligible[key]; !ok {
			eligible[key] = make(map[int32]struct{})
		}
		for _, n := range t.NthWeeks {
			eligible[key][n] = struct{}{}
		}
	}

	if len(eligible) == 0 {
		return 0, nil
	}

	instances, err := s.shifts.GetShiftInstancesByMonth(clientID, month)
	if err != nil {
		return 0, err
	}

	toDelete := make([]int64, 0)
	for _, inst := range instances {
		key := pruneKey{
			weekday:            int32(inst.Date.Weekday()),
			startTime:          inst.StartTime,
			requiredStaffCount: inst.RequiredStaffCount,
		}
		set, ok := eligible[key]
		if !ok {
			continue
		}
		if _, ok := set[recurrence.NthWeekOfMonth(inst.Date)]; !ok {
			toDelete = append(toDelete, inst.ID)
		}
	}

	pruned := 0
	for start := 0; start < len(toDelete); start += PruneBatchSize {
		end := min(start+PruneBatchSize, len(toDelete))
		if err := s.shifts.DeleteShiftInstances(toDelete[start:end]); err != nil {
			return pruned, err
		}
		pruned += end - start
	}

	return pruned, nil
}
