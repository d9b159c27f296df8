package recurrence

import (
	"sort"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

// Reconcile 把候选班次和当月已落库的实例按策略合并成一份分类结果。
// 这里只做分类，任何策略下都不发生落库修改：即使策略是 delete_month_insert，
// 真正的删除也发生在下发阶段的存储层。
//
// 冲突判定是对称的：候选对照全部实例，实例也对照全部候选——包括随后会被
// skip_conflict 丢弃的候选，所以被撞上的实例即使对面消失了也会带上 conflict 标记。
func Reconcile(cands []*Candidate, existing []*domain.ShiftInstance, policy domain.ReconcilePolicy) ([]domain.PreviewRow, error) {
	rows := make([]domain.PreviewRow, 0, len(cands)+len(existing))

	for _, c := range cands {
		conflict := false
		for _, inst := range existing {
			if !sameDate(c.Date, inst.Date) {
				continue
			}
			ov, err := Overlaps(c.StartTime, c.EndTime, inst.StartTime, inst.EndTime)
			if err != nil {
				return nil, err
			}
			if ov {
				conflict = true
				break
			}
		}

		if policy == domain.PolicySkipConflict && conflict {
			// 冲突候选直接丢弃，预览和下发里都不会出现
			continue
		}

		action := domain.ActionNew
		if conflict {
			action = domain.ActionNewConflict
		}

		rows = append(rows, domain.PreviewRow{
			Date:               c.Date,
			StartTime:          c.StartTime,
			EndTime:            c.EndTime,
			RequiredStaffCount: c.RequiredStaffCount,
			StaffSlots:         c.StaffSlots,
			TwoPersonWork:      c.TwoPersonWork,
			ServiceCode:        c.ServiceCode,
			IsTemplate:         true,
			Conflict:           conflict,
			Action:             action,
			InstanceID:         nil,
		})
	}

	for _, inst := range existing {
		conflict := false
		for _, c := range cands {
			if !sameDate(inst.Date, c.Date) {
				continue
			}
			ov, err := Overlaps(inst.StartTime, inst.EndTime, c.StartTime, c.EndTime)
			if err != nil {
				return nil, err
			}
			if ov {
				conflict = true
				break
			}
		}

		// 已有实例从不被这里改写：delete_month_insert 之外一律 keep，
		// 字段级的覆盖属于存储层自己的写路径
		action := domain.ActionKeep
		if policy == domain.PolicyDeleteMonthInsert {
			action = domain.ActionDelete
		}

		instanceID := inst.ID
		rows = append(rows, domain.PreviewRow{
			Date:               inst.Date,
			StartTime:          inst.StartTime,
			EndTime:            inst.EndTime,
			RequiredStaffCount: inst.RequiredStaffCount,
			StaffSlots:         inst.StaffSlots,
			TwoPersonWork:      inst.TwoPersonWork,
			ServiceCode:        inst.ServiceCode,
			IsTemplate:         false,
			Conflict:           conflict,
			Action:             action,
			InstanceID:         &instanceID,
		})
	}

	// 按（日期，开始时刻）升序，相同时保持插入顺序
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return clockMinutes(rows[i].StartTime) < clockMinutes(rows[j].StartTime)
	})

	return rows, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
