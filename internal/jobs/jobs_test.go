package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIntegrity struct {
	mock.Mock
}

func (m *mockIntegrity) Check(ctx context.Context, companyID string) (*domain.IntegrityReport, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrityReport), args.Error(1)
}

func (m *mockIntegrity) CheckAll(ctx context.Context) ([]domain.IntegrityReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntegrityReport), args.Error(1)
}

func TestNewIntegrityCheckTask(t *testing.T) {
	task, err := NewIntegrityCheckTask("c1")
	require.NoError(t, err)
	assert.Equal(t, TaskIntegrityCheck, task.Type())

	var payload IntegrityCheckPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "c1", payload.CompanyID)
}

func TestIntegrityCheckJob_SingleCompany(t *testing.T) {
	svc := new(mockIntegrity)
	svc.On("Check", mock.Anything, "c1").Return(&domain.IntegrityReport{CompanyID: "c1", UnbalancedEntries: []string{"je-9"}}, nil).Once()
	task, err := NewIntegrityCheckTask("c1")
	require.NoError(t, err)

	// Findings are reported, not retried
	assert.NoError(t, NewIntegrityCheckJob(svc, nil).Handle(context.Background(), task))
	svc.AssertExpectations(t)
}

func TestIntegrityCheckJob_AllCompanies(t *testing.T) {
	svc := new(mockIntegrity)
	svc.On("CheckAll", mock.Anything).Return([]domain.IntegrityReport{{CompanyID: "c1"}, {CompanyID: "c2"}}, nil).Once()

	err := NewIntegrityCheckJob(svc, nil).Handle(context.Background(), asynq.NewTask(TaskIntegrityCheck, nil))
	assert.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestIntegrityCheckJob_Failures(t *testing.T) {
	svc := new(mockIntegrity)
	boom := errors.New("database unavailable")
	svc.On("CheckAll", mock.Anything).Return(nil, boom).Once()
	job := NewIntegrityCheckJob(svc, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskIntegrityCheck, []byte(`{}`)))
	assert.ErrorIs(t, err, boom)

	err = job.Handle(context.Background(), asynq.NewTask(TaskIntegrityCheck, []byte(`not json`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	var unset *IntegrityCheckJob
	assert.Error(t, unset.Handle(context.Background(), asynq.NewTask(TaskIntegrityCheck, nil)))
}

func TestNewWorker_RejectsBadCron(t *testing.T) {
	task, err := NewIntegrityCheckTask("")
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Cron:      []CronRegistration{{Spec: "not a cron spec", Task: task}},
	})
	assert.Error(t, err)
}
