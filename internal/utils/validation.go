package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

// ValidateWeeklyTemplate 校验班型的业务约束。
// 注意结束时刻允许不晚于开始时刻：这表示跨天班次，不是错误。
func ValidateWeeklyTemplate(t *domain.WeeklyTemplate) error {
	if t.Weekday < 0 || t.Weekday > 6 {
		return errors.New("weekday 必须在 0 ~ 6 之间（0 表示周日）")
	}

	if _, err := time.Parse(domain.ClockLayout, t.StartTime); err != nil {
		return errors.New("开始时刻格式错误，应为 HH:MM:SS")
	}
	if _, err := time.Parse(domain.ClockLayout, t.EndTime); err != nil {
		return errors.New("结束时刻格式错误，应为 HH:MM:SS")
	}

	if t.RequiredStaffCount < 1 {
		return errors.New("需要的员工数必须大于 0")
	}

	seen := make(map[int32]bool)
	for _, nth := range t.NthWeeks {
		if nth < 1 || nth > 5 {
			return fmt.Errorf("第 N 周取值非法: %d，必须在 1 ~ 5 之间", nth)
		}
		if seen[nth] {
			return fmt.Errorf("第 N 周取值重复: %d", nth)
		}
		seen[nth] = true
	}

	if t.EffectiveFrom != nil && t.EffectiveTo != nil && t.EffectiveFrom.After(*t.EffectiveTo) {
		return errors.New("生效开始日期不能晚于生效结束日期")
	}

	if len(t.StaffSlots) > domain.MaxStaffSlots {
		return fmt.Errorf("员工坑位最多 %d 个", domain.MaxStaffSlots)
	}

	return nil
}
