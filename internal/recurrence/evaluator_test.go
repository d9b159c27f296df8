package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

// 2026 年 7 月的周一落在 6、13、20、27 号，即第 1、2、3、4 周。
var july2026 = Month{Year: 2026, Month: time.July}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mondayTemplate() *domain.WeeklyTemplate {
	return &domain.WeeklyTemplate{
		ID:                 1,
		ClientID:           10,
		Weekday:            1,
		StartTime:          "09:00:00",
		EndTime:            "10:00:00",
		RequiredStaffCount: 1,
		IsActive:           true,
		ServiceCode:        "SVC-BODY",
	}
}

func candidateDays(cands []*Candidate) []int {
	days := make([]int, 0, len(cands))
	for _, c := range cands {
		days = append(days, c.Date.Day())
	}
	return days
}

func TestEvaluatePlainWeekday(t *testing.T) {
	cands := Evaluate([]*domain.WeeklyTemplate{mondayTemplate()}, july2026, true)

	assert.Equal(t, []int{6, 13, 20, 27}, candidateDays(cands))
	for _, c := range cands {
		assert.Equal(t, time.Monday, c.Date.Weekday())
		assert.Equal(t, "09:00:00", c.StartTime)
		assert.Equal(t, int64(10), c.ClientID)
	}
}

func TestEvaluateNthWeeks(t *testing.T) {
	tpl := mondayTemplate()
	tpl.NthWeeks = []int32{1, 3}

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)

	// 7 月的周一只有第 1~4 周，命中第 1、3 周即 6 号和 20 号
	assert.Equal(t, []int{6, 20}, candidateDays(cands))
}

func TestEvaluateEffectiveBounds(t *testing.T) {
	tpl := mondayTemplate()
	tpl.EffectiveFrom = datePtr(2026, time.July, 10)
	tpl.EffectiveTo = datePtr(2026, time.July, 25)

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)

	assert.Equal(t, []int{13, 20}, candidateDays(cands))
}

func TestEvaluateEffectiveBoundsInclusive(t *testing.T) {
	tpl := mondayTemplate()
	tpl.EffectiveFrom = datePtr(2026, time.July, 6)
	tpl.EffectiveTo = datePtr(2026, time.July, 27)

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)

	// 生效区间是闭区间，边界上的日期要算进去
	assert.Equal(t, []int{6, 13, 20, 27}, candidateDays(cands))
}

func TestEvaluateInactiveSkipped(t *testing.T) {
	tpl := mondayTemplate()
	tpl.IsActive = false

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)

	assert.Empty(t, cands)
}

func TestEvaluateBiweeklyAnchoredAtEffectiveFrom(t *testing.T) {
	tpl := mondayTemplate()
	tpl.IsBiweekly = true
	tpl.EffectiveFrom = datePtr(2026, time.June, 22) // 周一

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)

	// 距离锚点 2、4 周的 6 号和 20 号命中，3、5 周的 13 号和 27 号跳过
	assert.Equal(t, []int{6, 20}, candidateDays(cands))
}

func TestEvaluateBiweeklyOddAnchor(t *testing.T) {
	tpl := mondayTemplate()
	tpl.IsBiweekly = true
	tpl.EffectiveFrom = datePtr(2026, time.June, 29)

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)

	assert.Equal(t, []int{13, 27}, candidateDays(cands))
}

func TestEvaluateBiweeklyWithoutEffectiveFrom(t *testing.T) {
	tpl := mondayTemplate()
	tpl.IsBiweekly = true

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)

	// 没有 effectiveFrom 时锚点是首次命中的日期，首次总是成立
	assert.Equal(t, []int{6, 20}, candidateDays(cands))
}

func TestEvaluateRecurrenceDisabled(t *testing.T) {
	tpl := mondayTemplate()
	tpl.IsBiweekly = true
	tpl.NthWeeks = []int32{1}
	tpl.EffectiveFrom = datePtr(2026, time.June, 29)

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, false)

	// 关掉周期规则后隔周和第 N 周的过滤都不生效，生效区间照常生效
	assert.Equal(t, []int{6, 13, 20, 27}, candidateDays(cands))
}

func TestEvaluateDeterministic(t *testing.T) {
	tpl1 := mondayTemplate()
	tpl2 := mondayTemplate()
	tpl2.ID = 2
	tpl2.StartTime = "14:00:00"
	tpl2.EndTime = "15:00:00"

	templates := []*domain.WeeklyTemplate{tpl1, tpl2}

	first := Evaluate(templates, july2026, true)
	second := Evaluate(templates, july2026, true)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}

	// 先按日期、再按传入班型的顺序
	assert.Equal(t, []int{6, 6, 13, 13, 20, 20, 27, 27}, candidateDays(first))
	assert.Equal(t, int64(1), first[0].TemplateID)
	assert.Equal(t, int64(2), first[1].TemplateID)
}

func TestEvaluateCopiesStaffSlots(t *testing.T) {
	staffID := int64(7)
	tpl := mondayTemplate()
	tpl.StaffSlots = []domain.StaffSlot{{StaffID: &staffID, RoleCode: "HELPER"}}

	cands := Evaluate([]*domain.WeeklyTemplate{tpl}, july2026, true)
	require.NotEmpty(t, cands)

	cands[0].StaffSlots[0].RoleCode = "CHANGED"
	assert.Equal(t, "HELPER", tpl.StaffSlots[0].RoleCode, "候选修改坑位不应影响班型")
}
