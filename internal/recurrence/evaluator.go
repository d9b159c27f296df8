package recurrence

import (
	"slices"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

// Candidate 是班型在某一天上的一次投影，只存在于一次预览或下发的内存中，
// 从不落库。
type Candidate struct {
	TemplateID         int64
	ClientID           int64
	Date               time.Time
	StartTime          string
	EndTime            string
	RequiredStaffCount int32
	StaffSlots         []domain.StaffSlot
	TwoPersonWork      bool
	ServiceCode        string
}

// Evaluate 把一组班型逐日投影到目标月份上，返回所有命中的候选班次。
// 纯函数：相同输入总是产出相同结果，不读时钟也不碰任何外部状态。
//
// 逐日扫描的顺序是：先按日期，再按传入的班型顺序。对每个 (日期, 班型) 组合：
//  1. 星期几不匹配则跳过；
//  2. 日期落在生效区间（闭区间）之外则跳过；
//  3. recurrenceEnabled 为 true 时再做两个过滤：
//     隔周班型做周奇偶校验（锚点取 effectiveFrom，没有的话取首次命中的日期），
//     nthWeeks 非空时日期的第 N 周必须在集合内。
func Evaluate(templates []*domain.WeeklyTemplate, month Month, recurrenceEnabled bool) []*Candidate {
	cands := make([]*Candidate, 0)
	anchors := make(map[int64]time.Time)

	daysIn := month.DaysIn()
	for day := 1; day <= daysIn; day++ {
		d := month.Date(day)
		for _, t := range templates {
			if !t.IsActive {
				continue
			}
			if int32(d.Weekday()) != t.Weekday {
				continue
			}
			if t.EffectiveFrom != nil && d.Before(*t.EffectiveFrom) {
				continue
			}
			if t.EffectiveTo != nil && d.After(*t.EffectiveTo) {
				continue
			}
			if recurrenceEnabled {
				if t.IsBiweekly && !biweeklyEligible(t, d, anchors) {
					continue
				}
				if len(t.NthWeeks) > 0 && !slices.Contains(t.NthWeeks, NthWeekOfMonth(d)) {
					continue
				}
			}
			cands = append(cands, newCandidate(t, d))
		}
	}

	return cands
}

// biweeklyEligible 做隔周班型的周奇偶校验：距离锚点偶数周才命中。
// 没有 effectiveFrom 的班型在首次参与校验时把当前日期记为自己的锚点，
// 所以首次命中总是成立，之后每隔一周命中一次。
func biweeklyEligible(t *domain.WeeklyTemplate, d time.Time, anchors map[int64]time.Time) bool {
	anchor, ok := anchors[t.ID]
	if !ok {
		if t.EffectiveFrom != nil {
			anchor = *t.EffectiveFrom
		} else {
			anchor = d
		}
		anchors[t.ID] = anchor
	}

	days := int(d.Sub(anchor) / (24 * time.Hour))
	weeks := days / 7

	return weeks%2 == 0
}

func newCandidate(t *domain.WeeklyTemplate, d time.Time) *Candidate {
	slots := make([]domain.StaffSlot, len(t.StaffSlots))
	copy(slots, t.StaffSlots)

	return &Candidate{
		TemplateID:         t.ID,
		ClientID:           t.ClientID,
		Date:               d,
		StartTime:          t.StartTime,
		EndTime:            t.EndTime,
		RequiredStaffCount: t.RequiredStaffCount,
		StaffSlots:         slots,
		TwoPersonWork:      t.TwoPersonWork,
		ServiceCode:        t.ServiceCode,
	}
}
