package room

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"artillery/events"
	"artillery/game"
	"artillery/protocol"
)

// MaxDt caps the simulated time of one tick so a stalled ticker cannot
// tunnel projectiles through terrain.
const MaxDt = 0.1

// MaxTickHz is the fastest accepted simulation rate.
const MaxTickHz = 1000

type Room struct {
	Inbox chan any

	Code    string            // room code (e.g. "ABC123")
	OnEmpty func(code string) // called when last player leaves

	tickHz         int
	broadcastEvery int
	codec          protocol.Codec
	clock          func() time.Time
	logger         *log.Logger
	sink           events.Sink
	matchOpts      []game.Option

	match   *game.Match
	clients map[string]*client
	order   []string
	names   map[string]string
	ticker  *time.Ticker
	last    time.Time

	players atomic.Int32
	phase   atomic.Uint32

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type Option func(*Room)

func WithTickHz(hz int) Option {
	return func(r *Room) {
		if hz > 0 && hz <= MaxTickHz {
			r.tickHz = hz
		}
	}
}

func WithCodec(c protocol.Codec) Option {
	return func(r *Room) { r.codec = c }
}

// WithClock replaces time.Now as the source of tick deltas.
func WithClock(now func() time.Time) Option {
	return func(r *Room) { r.clock = now }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Room) { r.logger = l }
}

// WithSink forwards lifecycle frames (joins, leaves, start, turns, end).
func WithSink(s events.Sink) Option {
	return func(r *Room) { r.sink = s }
}

func WithMatchOptions(opts ...game.Option) Option {
	return func(r *Room) { r.matchOpts = append(r.matchOpts, opts...) }
}

func New(code string, opts ...Option) *Room {
	r := &Room{
		Inbox:   make(chan any, 256),
		Code:    code,
		tickHz:  protocol.SimTickHz,
		codec:   protocol.JSON{},
		clock:   time.Now,
		logger:  log.Default(),
		sink:    events.Discard{},
		clients: make(map[string]*client),
		names:   make(map[string]string),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.broadcastEvery = r.tickHz / protocol.BroadcastHz
	if r.broadcastEvery <= 0 {
		r.broadcastEvery = 1
	}
	r.logger = r.logger.With("room", code)
	r.match = game.NewMatch(code, r.matchOpts...)
	return r
}

// Stop ends the actor. It is safe to call more than once and from any
// goroutine; no tick runs after Run observes it.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Done is closed once Run has returned.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// NumPlayers returns the current number of connected clients.
func (r *Room) NumPlayers() int {
	return int(r.players.Load())
}

func (r *Room) Phase() game.Phase {
	return game.Phase(r.phase.Load())
}

// send delivers cmd to the inbox unless the room has stopped.
func (r *Room) send(cmd any) bool {
	select {
	case <-r.quit:
		return false
	case r.Inbox <- cmd:
		return true
	}
}

func (r *Room) Run() {
	defer close(r.done)
	defer r.shutdown()

	for {
		var tickC <-chan time.Time
		if r.ticker != nil {
			tickC = r.ticker.C
		}
		select {
		case <-r.quit:
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-tickC:
			r.tick()
		}
		r.publishStatus()
	}
}

func (r *Room) shutdown() {
	r.stopTicker()
	for id, c := range r.clients {
		c.close()
		delete(r.clients, id)
	}
	r.order = nil
	r.players.Store(0)
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		r.handleJoin(c)
	case Action:
		if _, ok := r.clients[c.PlayerID]; !ok {
			return
		}
		if out := r.match.Apply(c.PlayerID, c.Action); out != game.Accepted {
			r.logger.Debug("action rejected", "player", c.PlayerID, "action", c.Action, "reason", out)
		}
		r.flushEvents()
	case Leave:
		r.handleLeave(c.PlayerID)
	case SnapshotRequest:
		c.Reply <- r.match.Snapshot()
	}
}

func (r *Room) handleJoin(c Join) {
	if !r.match.AddParticipant(c.PlayerID) {
		c.Reply <- JoinResult{PlayerID: c.PlayerID, Code: r.Code}
		return
	}
	name := c.Name
	if name == "" {
		name = "Player " + c.PlayerID
	}
	cl := newClient(c.PlayerID, name, c.Conn)
	r.clients[c.PlayerID] = cl
	r.order = append(r.order, c.PlayerID)
	r.names[c.PlayerID] = name
	tank, _ := r.match.Tank(c.PlayerID)
	r.logger.Info("player joined", "player", c.PlayerID, "name", name, "seat", r.match.Len(), "x", tank.Pos.X)

	if b, err := r.codec.Encode(protocol.MsgWelcome, protocol.Welcome{
		PlayerID: c.PlayerID,
		Room:     r.Code,
		TickHz:   r.tickHz,
	}); err == nil {
		cl.enqueue(b)
	}
	r.publishStatus()
	c.Reply <- JoinResult{PlayerID: c.PlayerID, Code: r.Code, OK: true}
	r.flushEvents()
}

func (r *Room) handleLeave(playerID string) {
	r.removeClient(playerID)
	r.match.RemoveParticipant(playerID)
	r.flushEvents()
	r.players.Store(int32(len(r.clients)))
	if len(r.clients) == 0 && r.OnEmpty != nil && r.Code != "" {
		r.OnEmpty(r.Code)
	}
}

func (r *Room) removeClient(playerID string) {
	c, ok := r.clients[playerID]
	if !ok {
		return
	}
	c.close()
	delete(r.clients, playerID)
	delete(r.names, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Room) tick() {
	select {
	case <-r.quit:
		return
	default:
	}
	now := r.clock()
	dt := now.Sub(r.last).Seconds()
	r.last = now
	if dt > MaxDt {
		dt = MaxDt
	}
	if dt < 0 {
		dt = 0
	}
	r.match.Step(dt)
	if r.match.Phase() == game.PhasePlaying && r.match.Tick()%r.broadcastEvery == 0 {
		r.broadcast(protocol.MsgGameState, r.state(), false)
	}
	r.flushEvents()
	r.reapFailed()
}

// flushEvents turns queued match events into frames for clients and the sink.
func (r *Room) flushEvents() {
	for _, ev := range r.match.DrainEvents() {
		switch ev.Kind {
		case game.EventParticipantJoined:
			r.broadcast(protocol.MsgPlayerJoined, protocol.PlayerJoined{
				PlayerID: ev.PlayerID,
				Name:     r.names[ev.PlayerID],
				State:    r.state(),
			}, true)
		case game.EventParticipantLeft:
			r.broadcast(protocol.MsgPlayerLeft, protocol.PlayerLeft{PlayerID: ev.PlayerID}, true)
			r.logger.Info("player left", "player", ev.PlayerID)
		case game.EventMatchStarted:
			r.startTicker()
			r.logger.Info("match started", "turn", ev.PlayerID, "players", r.match.Participants())
			r.broadcast(protocol.MsgGameStarted, protocol.GameStarted{State: r.state()}, true)
		case game.EventTurnChanged:
			r.broadcast(protocol.MsgTurnChanged, protocol.TurnChanged{
				CurrentTurn: ev.PlayerID,
				TimeLeft:    r.match.Tuning().TurnLimit,
			}, true)
		case game.EventMatchEnded:
			r.stopTicker()
			r.logger.Info("match ended", "winner", r.match.Winner(), "tick", r.match.Tick())
			r.broadcast(protocol.MsgGameEnded, protocol.GameEnded{Winner: ev.Winner, State: r.state()}, true)
		}
	}
}

func (r *Room) startTicker() {
	if r.ticker != nil {
		return
	}
	r.ticker = time.NewTicker(time.Second / time.Duration(r.tickHz))
	r.last = r.clock()
}

func (r *Room) stopTicker() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	r.ticker = nil
}

func (r *Room) state() protocol.State {
	return protocol.NewState(r.match.Snapshot(), r.names)
}

// broadcast queues one frame for every client in join order. lifecycle
// frames are also handed to the sink.
func (r *Room) broadcast(msgType string, payload any, lifecycle bool) {
	b, err := r.codec.Encode(msgType, payload)
	if err != nil {
		r.logger.Error("encode failed", "type", msgType, "err", err)
		return
	}
	for _, id := range r.order {
		if c := r.clients[id]; !c.enqueue(b) {
			r.logger.Warn("outbound queue full, frame dropped", "player", id, "type", msgType)
		}
	}
	if lifecycle {
		r.sink.Publish(r.Code, msgType, b)
	}
}

// reapFailed treats a client whose connection errored as having left.
func (r *Room) reapFailed() {
	var failed []string
	for _, id := range r.order {
		if r.clients[id].failed.Load() {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.logger.Warn("send failed, dropping player", "player", id)
		r.handleLeave(id)
	}
}

func (r *Room) publishStatus() {
	r.players.Store(int32(len(r.clients)))
	r.phase.Store(uint32(r.match.Phase()))
}
