package binding

import (
	"fmt"
	"slices"
	"time"

	"github.com/automoto/brickbrawl/shared/messages"
	"github.com/automoto/brickbrawl/shared/netconfig"
	"github.com/automoto/brickbrawl/shared/protocol"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultDeadzone is the analog threshold used unless WithDeadzone is given.
	DefaultDeadzone = 0.2

	defaultFailureLogInterval = time.Second
)

type device struct {
	index  netconfig.DeviceIndex
	player netconfig.PlayerID
}

type sentMove struct {
	player netconfig.PlayerID
	move   netconfig.Vec2
}

type subscriber struct {
	id int
	fn func(Change)
}

// Reconciler owns the device binding table, the mirror of the host roster and
// the per-device movement cache. All state sits behind one mutex; transport
// calls and subscriber callbacks run outside it.
type Reconciler struct {
	mu deadlock.Mutex

	transport  Transport
	deadzone   float64
	log        *zap.SugaredLogger
	now        func() time.Time
	failureLog *rate.Sometimes

	devices  []*device // registration order
	byIndex  map[netconfig.DeviceIndex]*device
	roster   []netconfig.PlayerID
	lastMove map[netconfig.DeviceIndex]sentMove
	pending  int
	seq      uint32

	subs    []subscriber
	nextSub int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDeadzone overrides the analog deadzone threshold.
func WithDeadzone(threshold float64) Option {
	return func(r *Reconciler) {
		r.deadzone = max(threshold, 0)
	}
}

// WithLogger sets the logger used for dropped sends and roster rejections.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Reconciler) {
		r.log = log
	}
}

// WithFailureLogInterval sets the minimum spacing between repeated
// "input frame dropped" log lines.
func WithFailureLogInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		r.failureLog = &rate.Sometimes{Interval: d}
	}
}

// WithClock overrides the clock used for frame timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// New creates a reconciler with an empty roster and no known devices.
func New(transport Transport, opts ...Option) *Reconciler {
	r := &Reconciler{
		transport:  transport,
		deadzone:   DefaultDeadzone,
		log:        zap.NewNop().Sugar(),
		now:        time.Now,
		failureLog: &rate.Sometimes{Interval: defaultFailureLogInterval},
		byIndex:    make(map[netconfig.DeviceIndex]*device),
		lastMove:   make(map[netconfig.DeviceIndex]sentMove),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnDeviceConnected registers a device and binds it to the first free roster
// player. With no free player an add request goes to the host and the device
// waits unbound. Already known devices are ignored.
func (r *Reconciler) OnDeviceConnected(index netconfig.DeviceIndex) {
	r.mu.Lock()
	if _, ok := r.byIndex[index]; ok {
		r.mu.Unlock()
		return
	}

	d := &device{index: index}
	r.devices = append(r.devices, d)
	r.byIndex[index] = d
	changes := []Change{{Kind: DeviceAdded, Device: index}}

	free, ok := r.freePlayerLocked()
	if ok {
		d.player = free
		changes = append(changes, Change{Kind: Bound, Device: index, Player: free})
	} else {
		r.pending++
	}
	r.mu.Unlock()

	if ok {
		r.log.Infow("device bound", "device", index, "player", free)
	} else {
		r.log.Infow("no free player, requesting one", "device", index)
		if err := r.transport.RequestPlayer(); err != nil {
			r.log.Warnw("player request dropped", "device", index, "error", err)
			r.mu.Lock()
			r.pending = max(r.pending-1, 0)
			r.mu.Unlock()
		}
	}

	r.emit(changes)
}

// OnDeviceDisconnected forgets a device and its cached movement. The roster
// and other devices are untouched.
func (r *Reconciler) OnDeviceDisconnected(index netconfig.DeviceIndex) {
	r.mu.Lock()
	d, ok := r.byIndex[index]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.byIndex, index)
	delete(r.lastMove, index)
	r.devices = slices.DeleteFunc(r.devices, func(x *device) bool { return x == d })
	r.mu.Unlock()

	r.log.Infow("device removed", "device", index, "player", d.player)
	r.emit([]Change{{Kind: DeviceRemoved, Device: index, Player: d.player}})
}

// OnRosterPushed replaces the roster. Bindings to players missing from the
// new roster are reset to unbound; their devices stay known. New players are
// left unclaimed. A malformed roster is rejected as a whole.
func (r *Reconciler) OnRosterPushed(players []netconfig.PlayerID) error {
	if err := protocol.ValidateRoster(players); err != nil {
		r.log.Warnw("roster rejected", "error", err)
		return fmt.Errorf("%w: %w", ErrMalformedRoster, err)
	}

	live := make(map[netconfig.PlayerID]struct{}, len(players))
	for _, id := range players {
		live[id] = struct{}{}
	}

	r.mu.Lock()
	r.roster = slices.Clone(players)
	var changes []Change
	for _, d := range r.devices {
		if d.player.IsZero() {
			continue
		}
		if _, ok := live[d.player]; ok {
			continue
		}
		changes = append(changes, Change{Kind: Unbound, Device: d.index, Player: d.player})
		d.player = netconfig.PlayerID{}
	}
	changes = append(changes, Change{Kind: RosterReplaced})
	r.mu.Unlock()

	for _, c := range changes {
		if c.Kind == Unbound {
			r.log.Infow("player left roster, device unbound", "device", c.Device, "player", c.Player)
		}
	}
	r.emit(changes)
	return nil
}

// OnPlayerAdded handles the host's answer to one of our add requests: the
// first unbound device in registration order takes the player. A player the
// roster does not list yet is recorded; the next roster push settles it.
func (r *Reconciler) OnPlayerAdded(id netconfig.PlayerID) {
	if id.IsZero() {
		return
	}

	r.mu.Lock()
	r.pending = max(r.pending-1, 0)
	if r.boundLocked(id) {
		r.mu.Unlock()
		return
	}
	if !slices.Contains(r.roster, id) {
		r.roster = append(r.roster, id)
	}

	var changes []Change
	for _, d := range r.devices {
		if d.player.IsZero() {
			d.player = id
			changes = append(changes, Change{Kind: Bound, Device: d.index, Player: id})
			break
		}
	}
	r.mu.Unlock()

	if len(changes) == 0 {
		r.log.Infow("player added with no waiting device", "player", id)
		return
	}
	r.log.Infow("device bound", "device", changes[0].Device, "player", id)
	r.emit(changes)
}

// OnPlayerDenied handles an absence answer to an add request. The waiting
// device stays unbound; only a later OnPlayerAdded or a reconnect binds it.
func (r *Reconciler) OnPlayerDenied(reason string) {
	r.mu.Lock()
	r.pending = max(r.pending-1, 0)
	r.mu.Unlock()

	r.log.Infow("player request denied", "reason", reason)
}

// SampleDevice filters one raw sample and sends it as an input frame for the
// bound player. Samples from unknown or unbound devices are discarded. Look
// and buttons are sent every time; Move only when it differs from the last
// move delivered for the device.
func (r *Reconciler) SampleDevice(index netconfig.DeviceIndex, s Sample) {
	r.mu.Lock()
	d, ok := r.byIndex[index]
	if !ok || d.player.IsZero() {
		r.mu.Unlock()
		return
	}

	move := ApplyDeadzone(s.Move, r.deadzone)
	r.seq++
	frame := messages.InputFrame{
		Player:    d.player,
		Look:      ApplyDeadzone(s.Look, r.deadzone),
		Buttons:   s.Buttons,
		Sequence:  r.seq,
		Timestamp: r.now().UnixMilli(),
	}
	if last, cached := r.lastMove[index]; !cached || last.player != d.player || last.move != move {
		frame.Move = &move
	}
	r.mu.Unlock()

	if err := r.transport.SendFrame(frame); err != nil {
		r.failureLog.Do(func() {
			r.log.Warnw("input frame dropped", "device", index, "player", frame.Player, "error", err)
		})
		return
	}
	if frame.Move == nil {
		return
	}

	r.mu.Lock()
	if cur, ok := r.byIndex[index]; ok && cur.player == frame.Player {
		r.lastMove[index] = sentMove{player: frame.Player, move: *frame.Move}
	}
	r.mu.Unlock()
}

// BoundPlayer returns the player driven by a device, for handlers that act on
// discrete events rather than per-tick samples.
func (r *Reconciler) BoundPlayer(index netconfig.DeviceIndex) (netconfig.PlayerID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byIndex[index]
	if !ok || d.player.IsZero() {
		return netconfig.PlayerID{}, false
	}
	return d.player, true
}

// Devices returns the binding table in registration order.
func (r *Reconciler) Devices() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Binding, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, Binding{Device: d.index, Player: d.player})
	}
	return out
}

// Roster returns a copy of the current roster.
func (r *Reconciler) Roster() []netconfig.PlayerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.roster)
}

// Pending returns the number of add requests still awaiting an answer.
func (r *Reconciler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Subscribe registers fn for binding changes. Callbacks run on the goroutine
// that caused the change, after the reconciler lock is released.
func (r *Reconciler) Subscribe(fn func(Change)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs = append(r.subs, subscriber{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		r.subs = slices.DeleteFunc(r.subs, func(s subscriber) bool { return s.id == id })
		r.mu.Unlock()
	}
}

func (r *Reconciler) emit(changes []Change) {
	if len(changes) == 0 {
		return
	}
	r.mu.Lock()
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	for _, c := range changes {
		for _, s := range subs {
			s.fn(c)
		}
	}
}

// freePlayerLocked returns the first roster player no device is bound to.
func (r *Reconciler) freePlayerLocked() (netconfig.PlayerID, bool) {
	for _, id := range r.roster {
		if !r.boundLocked(id) {
			return id, true
		}
	}
	return netconfig.PlayerID{}, false
}

func (r *Reconciler) boundLocked(id netconfig.PlayerID) bool {
	for _, d := range r.devices {
		if d.player == id {
			return true
		}
	}
	return false
}
