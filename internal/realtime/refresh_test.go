package realtime

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"sawit-ops/backend/internal/model"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestNotifyCoalescesBurst(t *testing.T) {
	hub := NewHub(zap.NewNop())
	var calls int64
	coord := NewCoordinator(hub, func(context.Context, string) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return nil, nil
	}, 20*time.Millisecond, zap.NewNop())
	defer coord.Stop()

	for i := 0; i < 10; i++ {
		coord.Notify("co-1")
	}

	waitFor(t, func() bool { return atomic.LoadInt64(&calls) == 1 },
		"burst did not trigger a refetch")
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("burst of 10 notifies fired %d refetches, want 1", got)
	}
}

func TestNotifyIsPerCompany(t *testing.T) {
	hub := NewHub(zap.NewNop())
	var calls int64
	coord := NewCoordinator(hub, func(context.Context, string) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return nil, nil
	}, 10*time.Millisecond, zap.NewNop())
	defer coord.Stop()

	coord.Notify("co-1")
	coord.Notify("co-2")

	waitFor(t, func() bool { return atomic.LoadInt64(&calls) == 2 },
		"companies did not refresh independently")
}

func TestNotifyDuringRefetchQueuesOneTrailing(t *testing.T) {
	hub := NewHub(zap.NewNop())
	started := make(chan struct{}, 4)
	proceed := make(chan struct{})
	var calls int64
	coord := NewCoordinator(hub, func(context.Context, string) (interface{}, error) {
		n := atomic.AddInt64(&calls, 1)
		started <- struct{}{}
		if n == 1 {
			<-proceed // hold the first refetch in flight
		}
		return nil, nil
	}, 10*time.Millisecond, zap.NewNop())
	defer coord.Stop()

	coord.Notify("co-1")
	<-started

	// These land while the first refetch is still running; they must
	// collapse into exactly one trailing refetch.
	coord.Notify("co-1")
	coord.Notify("co-1")
	coord.Notify("co-1")
	close(proceed)

	<-started // the trailing refetch
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Errorf("refetch ran %d times, want 2 (initial + one trailing)", got)
	}
}

func TestRefreshBroadcastsToDashboard(t *testing.T) {
	hub := NewHub(zap.NewNop())
	coord := NewCoordinator(hub, func(_ context.Context, companyID string) (interface{}, error) {
		return map[string]string{"company_id": companyID}, nil
	}, 10*time.Millisecond, zap.NewNop())
	defer coord.Stop()

	manager := testClient(hub, "manager-1", "co-1", model.RoleManager, 8)
	outsider := testClient(hub, "manager-2", "co-2", model.RoleManager, 8)
	hub.Register(manager)
	hub.Register(outsider)

	coord.Notify("co-1")

	var evt Event
	select {
	case evt = <-manager.send:
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh event delivered")
	}
	if evt.Type != EventDashboardRefresh {
		t.Errorf("event type = %q, want %q", evt.Type, EventDashboardRefresh)
	}
	if evt.Channel != ChannelDashboard {
		t.Errorf("event channel = %q, want DASHBOARD", evt.Channel)
	}
	if len(drain(outsider)) != 0 {
		t.Error("refresh leaked to another company")
	}
}

func TestStopDropsPendingRefresh(t *testing.T) {
	hub := NewHub(zap.NewNop())
	var calls int64
	coord := NewCoordinator(hub, func(context.Context, string) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		return nil, nil
	}, 50*time.Millisecond, zap.NewNop())

	coord.Notify("co-1")
	coord.Stop() // before the debounce window closes

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt64(&calls); got != 0 {
		t.Errorf("refetch ran %d times after Stop, want 0", got)
	}

	// Notifications after Stop are ignored.
	coord.Notify("co-1")
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt64(&calls); got != 0 {
		t.Errorf("refetch ran %d times after post-Stop notify, want 0", got)
	}
}
