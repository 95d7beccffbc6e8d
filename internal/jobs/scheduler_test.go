package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepairer struct {
	calls atomic.Int32
	err   error
}

func (r *countingRepairer) RepairOpaqueUsernames(context.Context) (int, error) {
	r.calls.Add(1)
	return 2, r.err
}

func TestScheduleUsernameRepair_RunsImmediately(t *testing.T) {
	log, _ := test.NewNullLogger()
	s, err := NewScheduler(log)
	require.NoError(t, err)

	repairer := &countingRepairer{}
	require.NoError(t, s.ScheduleUsernameRepair(repairer, time.Hour))
	assert.Equal(t, []string{repairJobName}, s.Jobs())

	s.Start()
	t.Cleanup(func() { _ = s.Stop() })

	assert.Eventually(t, func() bool {
		return repairer.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduleUsernameRepair_Disabled(t *testing.T) {
	log, _ := test.NewNullLogger()
	s, err := NewScheduler(log)
	require.NoError(t, err)

	require.NoError(t, s.ScheduleUsernameRepair(&countingRepairer{}, 0))
	assert.Empty(t, s.Jobs())

	s.Start()
	require.NoError(t, s.Stop())
}

func TestRunRepair_LogsFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	s, err := NewScheduler(log)
	require.NoError(t, err)

	s.runRepair(&countingRepairer{err: errors.New("database down")})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "Username repair failed", hook.LastEntry().Message)
}
