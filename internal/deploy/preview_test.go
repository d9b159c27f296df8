package deploy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

func TestPreviewClassifiesRows(t *testing.T) {
	store := newFakeStore()
	store.templates = []*domain.WeeklyTemplate{
		{
			ID:                 1,
			ClientID:           10,
			Weekday:            1, // 周一
			StartTime:          "09:00:00",
			EndTime:            "10:00:00",
			RequiredStaffCount: 1,
			NthWeeks:           []int32{1, 3},
			IsActive:           true,
			ServiceCode:        "SVC-BODY",
		},
	}
	store.instances = []*domain.ShiftInstance{
		instanceAt(100, 6, "09:30:00", 1),
	}
	s := NewPreviewService(store, store)

	rows, err := s.Preview(10, july2026, domain.PolicySkipConflict, true)
	require.NoError(t, err)

	// 候选落在 6 号和 20 号；6 号的被已有实例撞掉，skip_conflict 下被丢弃
	require.Len(t, rows, 2)

	assert.False(t, rows[0].IsTemplate)
	assert.True(t, rows[0].Conflict)
	assert.Equal(t, domain.ActionKeep, rows[0].Action)

	assert.True(t, rows[1].IsTemplate)
	assert.Equal(t, 20, rows[1].Date.Day())
	assert.Equal(t, domain.ActionNew, rows[1].Action)
}

func TestPreviewIsReadOnlyAndIdempotent(t *testing.T) {
	store := newFakeStore()
	store.templates = []*domain.WeeklyTemplate{
		{
			ID:                 1,
			ClientID:           10,
			Weekday:            1,
			StartTime:          "09:00:00",
			EndTime:            "10:00:00",
			RequiredStaffCount: 1,
			IsActive:           true,
			ServiceCode:        "SVC-BODY",
		},
	}
	store.instances = []*domain.ShiftInstance{
		instanceAt(100, 6, "09:00:00", 1),
	}
	s := NewPreviewService(store, store)

	first, err := s.Preview(10, july2026, domain.PolicyDeleteMonthInsert, true)
	require.NoError(t, err)
	second, err := s.Preview(10, july2026, domain.PolicyDeleteMonthInsert, true)
	require.NoError(t, err)

	// 状态不变时两次预览的行序列完全一致
	assert.Equal(t, first, second)
	// 任何策略下预览都不落库
	assert.Empty(t, store.deleted)
	assert.Zero(t, store.deleteBatches)
}

func TestPreviewTemplateLoadFailure(t *testing.T) {
	store := newFakeStore()
	store.templatesErr = errors.New("存储不可用")
	s := NewPreviewService(store, store)

	_, err := s.Preview(10, july2026, domain.PolicySkipConflict, true)
	assert.Error(t, err)
}

func TestPreviewInstanceReadFailure(t *testing.T) {
	store := newFakeStore()
	store.instancesErr = errors.New("存储不可用")
	s := NewPreviewService(store, store)

	_, err := s.Preview(10, july2026, domain.PolicySkipConflict, true)
	assert.Error(t, err)
}
