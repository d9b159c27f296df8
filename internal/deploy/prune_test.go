package deploy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

func TestPruneNthWeeksUnion(t *testing.T) {
	store := newFakeStore()
	// 两个班型落在同一个 (weekday, startTime, requiredStaffCount) 键上，
	// 资格取并集 {1, 3}
	templates := []*domain.WeeklyTemplate{
		biweeklyNthTemplate(1, 1, "09:00:00", 1, []int32{1}),
		biweeklyNthTemplate(2, 1, "09:00:00", 1, []int32{3}),
	}
	store.instances = []*domain.ShiftInstance{
		instanceAt(100, 6, "09:00:00", 1),  // 第 1 周，命中并集
		instanceAt(101, 13, "09:00:00", 1), // 第 2 周，删除
		instanceAt(102, 20, "09:00:00", 1), // 第 3 周，命中并集
		instanceAt(103, 27, "09:00:00", 1), // 第 4 周，删除
	}
	s := NewDeploymentService(store, store)

	pruned, err := s.prune(10, july2026, templates)

	require.NoError(t, err)
	assert.Equal(t, 2, pruned)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, []int64{101, 103}, store.deleted[0])
}

func TestPruneLeavesUnmatchedKeysAlone(t *testing.T) {
	store := newFakeStore()
	templates := []*domain.WeeklyTemplate{
		biweeklyNthTemplate(1, 1, "09:00:00", 1, []int32{1}),
	}
	store.instances = []*domain.ShiftInstance{
		instanceAt(100, 13, "14:00:00", 1), // 开始时刻不同，键不匹配
		instanceAt(101, 13, "09:00:00", 2), // 员工数不同，键不匹配
		instanceAt(102, 14, "09:00:00", 1), // 周二，键不匹配
	}
	s := NewDeploymentService(store, store)

	pruned, err := s.prune(10, july2026, templates)

	require.NoError(t, err)
	assert.Zero(t, pruned)
	assert.Empty(t, store.deleted, "键没有对应班型的实例必须原样保留")
}

func TestPruneSkipsWhenNoEligibleTemplates(t *testing.T) {
	store := newFakeStore()
	store.instancesErr = errors.New("不应该读实例")
	templates := []*domain.WeeklyTemplate{
		// 不是隔周
		{ID: 1, Weekday: 1, StartTime: "09:00:00", EndTime: "10:00:00", RequiredStaffCount: 1, IsActive: true, NthWeeks: []int32{1}},
		// 隔周但 nthWeeks 为空
		biweeklyNthTemplate(2, 2, "10:00:00", 1, nil),
	}
	s := NewDeploymentService(store, store)

	pruned, err := s.prune(10, july2026, templates)

	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestPruneInstanceReadFailure(t *testing.T) {
	store := newFakeStore()
	store.instancesErr = errors.New("存储不可用")
	templates := []*domain.WeeklyTemplate{
		biweeklyNthTemplate(1, 1, "09:00:00", 1, []int32{1}),
	}
	s := NewDeploymentService(store, store)

	pruned, err := s.prune(10, july2026, templates)

	require.Error(t, err)
	assert.Zero(t, pruned)
}
