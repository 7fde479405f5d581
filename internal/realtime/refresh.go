package realtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RefetchFunc rebuilds the dashboard payload for a company. The coordinator
// calls it at most once per debounce window per company.
type RefetchFunc func(ctx context.Context, companyID string) (interface{}, error)

// EventDashboardRefresh is broadcast on the DASHBOARD channel after a
// coalesced refetch completes.
const EventDashboardRefresh = "dashboard:refresh"

// refreshState tracks one company's debounce window and refetch latch.
type refreshState struct {
	timer *time.Timer
	// inFlight is the refetch latch: while a refetch runs, further
	// notifications only mark pending instead of starting another one.
	inFlight bool
	pending  bool
}

// Coordinator coalesces mutation notifications into dashboard refreshes.
//
// Every data change that should be reflected on dashboards calls Notify.
// Notifications within the debounce window collapse into a single refetch;
// notifications arriving while a refetch is in flight queue exactly one
// trailing refetch. This keeps a burst of mutations from stampeding the
// aggregate queries.
type Coordinator struct {
	mu       sync.Mutex
	states   map[string]*refreshState
	debounce time.Duration
	hub      *Hub
	refetch  RefetchFunc
	logger   *zap.Logger

	wg     sync.WaitGroup
	closed bool
}

// NewCoordinator creates a refresh coordinator. debounce must be positive.
func NewCoordinator(hub *Hub, refetch RefetchFunc, debounce time.Duration, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		states:   make(map[string]*refreshState),
		debounce: debounce,
		hub:      hub,
		refetch:  refetch,
		logger:   logger,
	}
}

// Notify records a data change for a company. The refresh fires once the
// debounce window closes with no further notifications.
func (c *Coordinator) Notify(companyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	st, ok := c.states[companyID]
	if !ok {
		st = &refreshState{}
		c.states[companyID] = st
	}

	if st.inFlight {
		st.pending = true
		return
	}
	if st.timer != nil {
		st.timer.Reset(c.debounce)
		return
	}
	st.timer = time.AfterFunc(c.debounce, func() { c.fire(companyID) })
}

func (c *Coordinator) fire(companyID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	st := c.states[companyID]
	st.timer = nil
	if st.inFlight {
		st.pending = true
		c.mu.Unlock()
		return
	}
	st.inFlight = true
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(companyID)
}

func (c *Coordinator) run(companyID string) {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	payload, err := c.refetch(ctx, companyID)
	cancel()
	if err != nil {
		c.logger.Error("dashboard refetch failed",
			zap.String("company_id", companyID), zap.Error(err))
	} else {
		c.hub.Publish(Event{
			Type:      EventDashboardRefresh,
			Channel:   ChannelDashboard,
			CompanyID: companyID,
			Payload:   payload,
		})
	}

	c.mu.Lock()
	st := c.states[companyID]
	st.inFlight = false
	if st.pending && !c.closed {
		st.pending = false
		st.timer = time.AfterFunc(c.debounce, func() { c.fire(companyID) })
	}
	c.mu.Unlock()
}

// Stop cancels pending timers and waits for in-flight refetches.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.closed = true
	for _, st := range c.states {
		if st.timer != nil {
			st.timer.Stop()
			st.timer = nil
		}
	}
	c.mu.Unlock()
	c.wg.Wait()
}
