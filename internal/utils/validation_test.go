package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

func validTemplate() *domain.WeeklyTemplate {
	return &domain.WeeklyTemplate{
		ClientID:           10,
		Weekday:            1,
		StartTime:          "09:00:00",
		EndTime:            "10:00:00",
		RequiredStaffCount: 1,
		IsActive:           true,
		ServiceCode:        "SVC-BODY",
	}
}

func TestValidateWeeklyTemplate(t *testing.T) {
	assert.NoError(t, ValidateWeeklyTemplate(validTemplate()))
}

func TestValidateWeeklyTemplateOvernightAllowed(t *testing.T) {
	wt := validTemplate()
	wt.StartTime = "22:00:00"
	wt.EndTime = "02:00:00"

	// 结束不晚于开始表示跨天班次，不是错误
	assert.NoError(t, ValidateWeeklyTemplate(wt))
}

func TestValidateWeeklyTemplateWeekday(t *testing.T) {
	for _, weekday := range []int32{-1, 7} {
		wt := validTemplate()
		wt.Weekday = weekday
		assert.Error(t, ValidateWeeklyTemplate(wt), "weekday %d", weekday)
	}
}

func TestValidateWeeklyTemplateClock(t *testing.T) {
	wt := validTemplate()
	wt.StartTime = "9:00"
	assert.Error(t, ValidateWeeklyTemplate(wt))

	wt = validTemplate()
	wt.EndTime = "25:00:00"
	assert.Error(t, ValidateWeeklyTemplate(wt))
}

func TestValidateWeeklyTemplateStaffCount(t *testing.T) {
	wt := validTemplate()
	wt.RequiredStaffCount = 0
	assert.Error(t, ValidateWeeklyTemplate(wt))
}

func TestValidateWeeklyTemplateNthWeeks(t *testing.T) {
	wt := validTemplate()
	wt.NthWeeks = []int32{1, 3, 5}
	assert.NoError(t, ValidateWeeklyTemplate(wt))

	wt.NthWeeks = []int32{0}
	assert.Error(t, ValidateWeeklyTemplate(wt))

	wt.NthWeeks = []int32{6}
	assert.Error(t, ValidateWeeklyTemplate(wt))

	wt.NthWeeks = []int32{2, 2}
	assert.Error(t, ValidateWeeklyTemplate(wt))
}

func TestValidateWeeklyTemplateEffectiveRange(t *testing.T) {
	from := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	wt := validTemplate()
	wt.EffectiveFrom = &from
	wt.EffectiveTo = &to
	assert.Error(t, ValidateWeeklyTemplate(wt))

	// 起止相同是允许的
	wt.EffectiveTo = &from
	assert.NoError(t, ValidateWeeklyTemplate(wt))
}

func TestValidateWeeklyTemplateStaffSlots(t *testing.T) {
	wt := validTemplate()
	for i := 0; i < domain.MaxStaffSlots+1; i++ {
		wt.StaffSlots = append(wt.StaffSlots, domain.StaffSlot{RoleCode: "HELPER"})
	}
	assert.Error(t, ValidateWeeklyTemplate(wt))

	wt.StaffSlots = wt.StaffSlots[:domain.MaxStaffSlots]
	assert.NoError(t, ValidateWeeklyTemplate(wt))
}
