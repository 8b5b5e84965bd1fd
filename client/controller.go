package client

import (
	"context"
	"sync"
	"time"

	"habitStopperAPI/internal/calendar"
	"habitStopperAPI/internal/habitlog"
	"habitStopperAPI/internal/user"
)

// State is the controller's authentication state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

// Controller holds the client-side state: current user, the local log cache
// and the displayed month. It is an explicit state object; nothing here is
// ambient or global. Safe for concurrent use.
type Controller struct {
	api API
	now func() time.Time

	mu    sync.Mutex
	state State
	user  *user.User
	logs  map[string]habitlog.Status
	year  int
	month time.Month
}

func NewController(api API) *Controller {
	c := &Controller{
		api: api,
		now: time.Now,
	}
	c.year, c.month = c.now().Year(), c.now().Month()
	return c
}

// Login resolves the identity, fetches the full log set and points the
// display at the real current month. On any failure the controller stays
// Anonymous with no partial state applied.
func (c *Controller) Login(ctx context.Context) error {
	u, err := c.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrLoginRequired
	}

	fetched, err := c.api.ListLogs(ctx)
	if err != nil {
		return err
	}

	logs := make(map[string]habitlog.Status, len(fetched))
	for _, l := range fetched {
		logs[l.Date] = l.Status
	}

	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Authenticated
	c.user = u
	c.logs = logs
	c.year, c.month = now.Year(), now.Month()
	return nil
}

// Logout clears the identity and the local log cache. Server-persisted data
// is untouched.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Anonymous
	c.user = nil
	c.logs = nil
}

// RecordToday writes today's status as a two-phase optimistic update: the
// local entry is tentatively replaced before the call is issued, then kept on
// success or reverted to the prior entry on failure.
func (c *Controller) RecordToday(ctx context.Context, status habitlog.Status) error {
	key := c.now().Format(habitlog.DateLayout)

	c.mu.Lock()
	if c.state != Authenticated {
		c.mu.Unlock()
		return ErrLoginRequired
	}
	prev, had := c.logs[key]
	c.logs[key] = status
	c.mu.Unlock()

	if _, err := c.api.SetStatus(ctx, key, status); err != nil {
		c.mu.Lock()
		if had {
			c.logs[key] = prev
		} else {
			delete(c.logs, key)
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

// ChangeDisplayedMonth moves the displayed month by delta. Purely local; the
// year wraps on month overflow in either direction.
func (c *Controller) ChangeDisplayedMonth(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Date(c.year, c.month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	c.year, c.month = t.Year(), t.Month()
}

// Displayed returns the currently displayed (year, month).
func (c *Controller) Displayed() (int, time.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.year, c.month
}

// State returns the current authentication state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the current user, nil when Anonymous.
func (c *Controller) User() *user.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Grid materializes the displayed month from the local log cache.
func (c *Controller) Grid() []calendar.Cell {
	c.mu.Lock()
	logs := make([]*habitlog.DailyLog, 0, len(c.logs))
	for date, status := range c.logs {
		logs = append(logs, &habitlog.DailyLog{Date: date, Status: status})
	}
	year, month := c.year, c.month
	c.mu.Unlock()

	return calendar.Materialize(year, month, logs, c.now())
}
