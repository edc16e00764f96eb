package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAndPoll(t *testing.T) {
	s := New(nil)
	ran := make(chan struct{})
	s.Register(Job{
		Name:     "ok_job",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			close(ran)
			return nil
		},
	})

	require.NoError(t, s.Run(context.Background(), "ok_job"))
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	require.Eventually(t, func() bool {
		res, err := s.GetTask("ok_job")
		return err == nil && res.Status == StatusFulfill
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFailureIsRecorded(t *testing.T) {
	s := New(nil)
	s.Register(Job{
		Name:     "bad_job",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			return errors.New("disk full")
		},
	})

	require.NoError(t, s.Run(context.Background(), "bad_job"))
	require.Eventually(t, func() bool {
		res, err := s.GetTask("bad_job")
		return err == nil && res.Status == StatusReject && res.Message == "disk full"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownJob(t *testing.T) {
	s := New(nil)

	require.Error(t, s.Run(context.Background(), "missing"))
	_, err := s.GetTask("missing")
	require.Error(t, err)
}

func TestListSnapshotsJobs(t *testing.T) {
	s := New(nil)
	s.Register(Job{Name: "a", Description: "first", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }})
	s.Register(Job{Name: "b", Description: "second", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }})

	items := s.List()
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, StatusIdle, item.Status)
		assert.NotNil(t, item.NextDate)
		assert.Nil(t, item.LastRunAt)
	}
}
