// Package notifications owns the notification collection: durable
// persistence, the role-scoped view, and the transient toast / auto-read
// timers.
package notifications

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/youthlink/youthlink/internal/logging"
	"github.com/youthlink/youthlink/internal/models"
	"github.com/youthlink/youthlink/internal/storage"
)

const (
	// DefaultToastDelay is how long a new-notification toast stays visible.
	DefaultToastDelay = 5 * time.Second
	// DefaultAutoReadDelay is how long unread entries stay rendered before
	// the whole view is considered read.
	DefaultAutoReadDelay = 3 * time.Second
)

// Store is the slice of the client KV store the center uses. The collection
// is read and written wholesale under one fixed key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// RoleSource exposes the current session role; the center is read-only on
// session state.
type RoleSource interface {
	CurrentRole() (models.Role, bool)
}

// Input is the caller-supplied part of a new notification.
type Input struct {
	Title        string
	Message      string
	Target       models.Target
	ScheduledFor time.Time
}

// Config wires the center's collaborators.
type Config struct {
	Store   Store
	Session RoleSource

	// OnChange is invoked (outside the center's lock) after every change to
	// the view or the active toast, so a UI can repaint. Optional.
	OnChange func()

	// ToastDelay and AutoReadDelay override the default timer durations.
	// Zero means default. Tests inject short delays here.
	ToastDelay    time.Duration
	AutoReadDelay time.Duration

	Log logging.Logger
}

// Center maintains the notification collection.
//
// The in-memory slice is kept newest-first structurally; every mutation is
// written back to storage under the center's mutex, so writes always
// serialize the latest state in mutation order. The stored read flag is
// per-record, shared by every session on the same device.
type Center struct {
	store   Store
	session RoleSource
	log     logging.Logger

	onChange      func()
	toastDelay    time.Duration
	autoReadDelay time.Duration

	mu         sync.Mutex
	items      []models.Notification
	toast      *models.Notification
	toastTimer *time.Timer
	autoTimer  *time.Timer
	closed     bool
}

// New constructs a Center and loads the persisted collection. A storage read
// or parse failure is logged and degrades to an empty collection; it never
// fails construction. Loading never writes back to storage.
func New(cfg Config) *Center {
	log := cfg.Log
	if log == nil {
		log = logging.NewDefault(io.Discard, slog.LevelInfo)
	}
	c := &Center{
		store:         cfg.Store,
		session:       cfg.Session,
		log:           log,
		onChange:      cfg.OnChange,
		toastDelay:    cfg.ToastDelay,
		autoReadDelay: cfg.AutoReadDelay,
	}
	if c.toastDelay <= 0 {
		c.toastDelay = DefaultToastDelay
	}
	if c.autoReadDelay <= 0 {
		c.autoReadDelay = DefaultAutoReadDelay
	}

	c.load()

	c.mu.Lock()
	c.rescheduleAutoReadLocked()
	c.mu.Unlock()

	return c
}

func (c *Center) load() {
	ctx := context.Background()
	data, err := c.store.Get(ctx, storage.KeyNotifications)
	if err != nil {
		c.log.Warn(ctx, "loading notifications failed, starting empty", "err", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var items []models.Notification
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Warn(ctx, "stored notifications are corrupt, starting empty", "err", err)
		return
	}

	// Records persisted before the read flag existed unmarshal with
	// read=false, which is the intended default.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	c.items = items
}

// Add creates a notification: id assigned, createdAt=now, status=sent,
// unread. It is prepended to the collection and persisted. When the current
// role is in the target audience, or there is no session, the notification
// also surfaces as a transient toast that auto-dismisses.
func (c *Center) Add(input Input) models.Notification {
	n := models.Notification{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Message:      input.Message,
		Target:       input.Target,
		ScheduledFor: input.ScheduledFor,
		CreatedAt:    time.Now().UTC(),
		Status:       models.StatusSent,
	}

	c.mu.Lock()
	c.items = append([]models.Notification{n}, c.items...)
	c.persistLocked()

	role, ok := c.session.CurrentRole()
	if !ok || n.Target.VisibleTo(role) {
		c.showToastLocked(n)
	}
	c.rescheduleAutoReadLocked()
	c.mu.Unlock()

	c.notifyChange()
	return n
}

// MarkAsRead flips the read flag of one notification. Absent ids and
// already-read entries are no-ops; the operation is idempotent.
func (c *Center) MarkAsRead(id string) {
	c.mu.Lock()
	changed := false
	for i := range c.items {
		if c.items[i].ID == id && !c.items[i].Read {
			c.items[i].Read = true
			changed = true
			break
		}
	}
	if changed {
		c.persistLocked()
		c.rescheduleAutoReadLocked()
	}
	c.mu.Unlock()

	if changed {
		c.notifyChange()
	}
}

// MarkAllAsRead flips the read flag on the entire stored collection
// uniformly, including entries outside the current role's view. The read
// flag is per-device, not per-user.
func (c *Center) MarkAllAsRead() {
	c.mu.Lock()
	changed := false
	for i := range c.items {
		if !c.items[i].Read {
			c.items[i].Read = true
			changed = true
		}
	}
	if changed {
		c.persistLocked()
		c.rescheduleAutoReadLocked()
	}
	c.mu.Unlock()

	if changed {
		c.notifyChange()
	}
}

// Remove deletes a notification and persists. Absent ids are a no-op.
func (c *Center) Remove(id string) {
	c.mu.Lock()
	removed := false
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		c.persistLocked()
		c.rescheduleAutoReadLocked()
	}
	c.mu.Unlock()

	if removed {
		c.notifyChange()
	}
}

// View returns the role-filtered collection, newest first. Admin sessions
// see the unfiltered set; no session yields an empty view.
func (c *Center) View() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Center) viewLocked() []models.Notification {
	role, ok := c.session.CurrentRole()
	if !ok {
		return nil
	}
	var out []models.Notification
	for _, n := range c.items {
		if n.Target.VisibleTo(role) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UnreadCount counts unread entries within the role-filtered view, never
// the unfiltered collection.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unreadInViewLocked()
}

func (c *Center) unreadInViewLocked() int {
	count := 0
	for _, n := range c.viewLocked() {
		if !n.Read {
			count++
		}
	}
	return count
}

// ActiveToast returns the currently displayed toast, or nil.
func (c *Center) ActiveToast() *models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.toast == nil {
		return nil
	}
	toast := *c.toast
	return &toast
}

// Refresh recomputes the timers after an external view change (login,
// logout, role switch).
func (c *Center) Refresh() {
	c.mu.Lock()
	c.rescheduleAutoReadLocked()
	c.mu.Unlock()
	c.notifyChange()
}

// Close cancels the pending timers. The center must not be used afterwards.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.toastTimer != nil {
		c.toastTimer.Stop()
		c.toastTimer = nil
	}
	if c.autoTimer != nil {
		c.autoTimer.Stop()
		c.autoTimer = nil
	}
	c.toast = nil
}

// persistLocked serializes the current collection wholesale. It runs under
// the mutex so storage always observes writes in mutation order.
func (c *Center) persistLocked() {
	ctx := context.Background()
	data, err := json.Marshal(c.items)
	if err != nil {
		c.log.Error(ctx, "marshalling notifications failed", "err", err)
		return
	}
	if err := c.store.Set(ctx, storage.KeyNotifications, data); err != nil {
		c.log.Error(ctx, "persisting notifications failed", "err", err)
	}
}

// showToastLocked replaces any visible toast and restarts the dismiss timer.
func (c *Center) showToastLocked(n models.Notification) {
	if c.closed {
		return
	}
	if c.toastTimer != nil {
		c.toastTimer.Stop()
	}
	c.toast = &n
	c.toastTimer = time.AfterFunc(c.toastDelay, func() {
		c.mu.Lock()
		c.toast = nil
		c.toastTimer = nil
		c.mu.Unlock()
		c.notifyChange()
	})
}

// rescheduleAutoReadLocked cancels the pending auto-read and starts a new
// one iff the current view still contains unread entries. This models
// "rendered for a few seconds means read": whenever unread entries are
// visible, a single delayed MarkAllAsRead fires unless superseded first.
func (c *Center) rescheduleAutoReadLocked() {
	if c.autoTimer != nil {
		c.autoTimer.Stop()
		c.autoTimer = nil
	}
	if c.closed {
		return
	}
	if c.unreadInViewLocked() == 0 {
		return
	}
	c.autoTimer = time.AfterFunc(c.autoReadDelay, c.MarkAllAsRead)
}

func (c *Center) notifyChange() {
	if c.onChange != nil {
		c.onChange()
	}
}
