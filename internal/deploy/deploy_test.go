package deploy

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/recurrence"
)

var july2026 = recurrence.Month{Year: 2026, Month: time.July}

// fakeStore 同时充当班型和实例的存储，记录所有写操作方便断言。
type fakeStore struct {
	templates    []*domain.WeeklyTemplate
	templatesErr error

	instances    []*domain.ShiftInstance
	instancesErr error

	materialized   int
	materializeErr error

	deleted       [][]int64
	deleteFailAt  int // 第几个批次返回错误，-1 表示从不失败
	deleteBatches int
}

func newFakeStore() *fakeStore {
	return &fakeStore{deleteFailAt: -1}
}

func (f *fakeStore) GetActiveWeeklyTemplates(clientID int64) ([]*domain.WeeklyTemplate, error) {
	if f.templatesErr != nil {
		return nil, f.templatesErr
	}
	return f.templates, nil
}

func (f *fakeStore) GetShiftInstancesByMonth(clientID int64, month recurrence.Month) ([]*domain.ShiftInstance, error) {
	if f.instancesErr != nil {
		return nil, f.instancesErr
	}
	return f.instances, nil
}

func (f *fakeStore) MaterializeMonth(clientID int64, month recurrence.Month, policy domain.ReconcilePolicy) (int, error) {
	if f.materializeErr != nil {
		return 0, f.materializeErr
	}
	return f.materialized, nil
}

func (f *fakeStore) DeleteShiftInstances(ids []int64) error {
	batch := f.deleteBatches
	f.deleteBatches++
	if batch == f.deleteFailAt {
		return fmt.Errorf("批次 %d 删除失败", batch)
	}
	f.deleted = append(f.deleted, ids)
	return nil
}

func biweeklyNthTemplate(id int64, weekday int32, start string, count int32, nth []int32) *domain.WeeklyTemplate {
	return &domain.WeeklyTemplate{
		ID:                 id,
		ClientID:           10,
		Weekday:            weekday,
		StartTime:          start,
		EndTime:            "10:00:00",
		RequiredStaffCount: count,
		NthWeeks:           nth,
		IsBiweekly:         true,
		IsActive:           true,
		ServiceCode:        "SVC-BODY",
	}
}

func instanceAt(id int64, day int, start string, count int32) *domain.ShiftInstance {
	return &domain.ShiftInstance{
		ID:                 id,
		ClientID:           10,
		Date:               july2026.Date(day),
		StartTime:          start,
		EndTime:            "10:00:00",
		RequiredStaffCount: count,
		ServiceCode:        "SVC-BODY",
	}
}

func TestDeployUnknownPolicy(t *testing.T) {
	store := newFakeStore()
	s := NewDeploymentService(store, store)

	result, err := s.Deploy(10, july2026, domain.ReconcilePolicy("merge"))

	require.Error(t, err)
	assert.Equal(t, domain.DeploymentStatusFailed, result.Status)
	assert.Zero(t, result.InsertedCount)
	assert.Zero(t, result.PrunedCount)
}

func TestDeployMaterializeFailure(t *testing.T) {
	store := newFakeStore()
	store.materializeErr = errors.New("存储不可用")
	s := NewDeploymentService(store, store)

	result, err := s.Deploy(10, july2026, domain.PolicySkipConflict)

	require.Error(t, err)
	assert.Equal(t, domain.DeploymentStatusFailed, result.Status)
	assert.Zero(t, result.InsertedCount)
	assert.Empty(t, store.deleted, "生成失败后不应该进入清理")
}

func TestDeployTemplateLoadFailure(t *testing.T) {
	store := newFakeStore()
	store.materialized = 12
	store.templatesErr = errors.New("存储不可用")
	s := NewDeploymentService(store, store)

	result, err := s.Deploy(10, july2026, domain.PolicySkipConflict)

	require.Error(t, err)
	assert.Equal(t, domain.DeploymentStatusPartiallyDone, result.Status)
	assert.Equal(t, 12, result.InsertedCount)
	assert.Zero(t, result.PrunedCount)
}

func TestDeployDoneWithoutEligibleTemplates(t *testing.T) {
	store := newFakeStore()
	store.materialized = 8
	// 非隔周、或者 nthWeeks 为空的班型都不参与清理
	store.templates = []*domain.WeeklyTemplate{
		{ID: 1, Weekday: 1, StartTime: "09:00:00", EndTime: "10:00:00", RequiredStaffCount: 1, IsActive: true, NthWeeks: []int32{1, 3}},
		biweeklyNthTemplate(2, 2, "10:00:00", 1, nil),
	}
	store.instancesErr = errors.New("不应该读实例")
	s := NewDeploymentService(store, store)

	result, err := s.Deploy(10, july2026, domain.PolicySkipConflict)

	require.NoError(t, err)
	assert.Equal(t, domain.DeploymentStatusDone, result.Status)
	assert.Equal(t, 8, result.InsertedCount)
	assert.Zero(t, result.PrunedCount)
	assert.Empty(t, store.deleted)
}

func TestDeployPruneBatchFailure(t *testing.T) {
	store := newFakeStore()
	store.materialized = 3
	store.templates = []*domain.WeeklyTemplate{
		biweeklyNthTemplate(1, 1, "09:00:00", 1, []int32{1}),
	}
	// 150 条全部落在第 2 周的周一，都不在资格集合里
	for i := 0; i < 150; i++ {
		store.instances = append(store.instances, instanceAt(int64(i+1), 13, "09:00:00", 1))
	}
	store.deleteFailAt = 1
	s := NewDeploymentService(store, store)

	result, err := s.Deploy(10, july2026, domain.PolicySkipConflict)

	require.Error(t, err)
	assert.Equal(t, domain.DeploymentStatusPartiallyDone, result.Status)
	assert.Equal(t, 3, result.InsertedCount)
	// 第一批 100 条已经删掉，第二批失败后立即停止
	assert.Equal(t, 100, result.PrunedCount)
	require.Len(t, store.deleted, 1)
	assert.Len(t, store.deleted[0], PruneBatchSize)
}

func TestDeployDoneWithPruning(t *testing.T) {
	store := newFakeStore()
	store.materialized = 5
	store.templates = []*domain.WeeklyTemplate{
		biweeklyNthTemplate(1, 1, "09:00:00", 1, []int32{1}),
	}
	store.instances = []*domain.ShiftInstance{
		instanceAt(100, 6, "09:00:00", 1),  // 第 1 周，保留
		instanceAt(101, 13, "09:00:00", 1), // 第 2 周，删除
	}
	s := NewDeploymentService(store, store)

	result, err := s.Deploy(10, july2026, domain.PolicySkipConflict)

	require.NoError(t, err)
	assert.Equal(t, domain.DeploymentStatusDone, result.Status)
	assert.Equal(t, 5, result.InsertedCount)
	assert.Equal(t, 1, result.PrunedCount)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, []int64{101}, store.deleted[0])
}
