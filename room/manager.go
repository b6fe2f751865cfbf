package room

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"artillery/game"
)

var (
	ErrRoomFull      = errors.New("room is full or already started")
	ErrRoomClosed    = errors.New("room closed")
	ErrUnknownRoom   = errors.New("unknown room")
	ErrUnknownPlayer = errors.New("unknown player")
)

// joinAttempts bounds matchmaking retries when a picked room fills up or
// closes between selection and the join reply.
const joinAttempts = 4

// RoomInfo is returned by the API for the server list.
type RoomInfo struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	Phase   string `json:"phase"`
}

// Manager holds multiple rooms by code. Rooms are created on first join or via CreateRoom,
// and removed when the last player leaves.
type Manager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	players map[string]string // player id -> room code

	nextID   atomic.Uint64
	logger   *log.Logger
	roomOpts []Option
}

func NewManager(logger *log.Logger, roomOpts ...Option) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		rooms:    make(map[string]*Room),
		players:  make(map[string]string),
		logger:   logger,
		roomOpts: roomOpts,
	}
}

// GetOrCreateRoom returns the room for the given code, creating it if needed.
func (m *Manager) GetOrCreateRoom(code string) *Room {
	if code == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		return r
	}
	return m.startRoomLocked(code)
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateRoom generates a unique 6-char code, creates the room, and returns the code.
func (m *Manager) CreateRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		m.startRoomLocked(code)
		return code
	}
}

func (m *Manager) startRoomLocked(code string) *Room {
	opts := append([]Option{WithLogger(m.logger)}, m.roomOpts...)
	r := New(code, opts...)
	r.OnEmpty = m.removeRoom
	m.rooms[code] = r
	go r.Run()
	m.logger.Info("room created", "room", code)
	return r
}

func (m *Manager) removeRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		r.Stop()
		delete(m.rooms, code)
		m.logger.Info("room removed", "room", code)
	}
}

// Join seats conn in the room named by code, or matchmakes when code is
// empty: a waiting room with one player first, then any waiting room,
// then a fresh room.
func (m *Manager) Join(code string, conn Conn, name string) (JoinResult, error) {
	playerID := fmt.Sprintf("p%d", m.nextID.Add(1))

	if code != "" {
		res, err := m.joinRoom(m.GetOrCreateRoom(code), playerID, conn, name)
		if err == nil && !res.OK {
			err = ErrRoomFull
		}
		return res, err
	}

	for i := 0; i < joinAttempts; i++ {
		r := m.pickWaiting()
		if r == nil {
			r = m.GetOrCreateRoom(m.CreateRoom())
		}
		res, err := m.joinRoom(r, playerID, conn, name)
		if err == nil && res.OK {
			return res, nil
		}
	}
	return JoinResult{PlayerID: playerID}, ErrRoomFull
}

func (m *Manager) joinRoom(r *Room, playerID string, conn Conn, name string) (JoinResult, error) {
	if r == nil {
		return JoinResult{}, ErrUnknownRoom
	}
	reply := make(chan JoinResult, 1)
	if !r.send(Join{PlayerID: playerID, Conn: conn, Name: name, Reply: reply}) {
		return JoinResult{}, ErrRoomClosed
	}
	select {
	case res := <-reply:
		if res.OK {
			m.mu.Lock()
			m.players[playerID] = r.Code
			m.mu.Unlock()
		}
		return res, nil
	case <-r.Done():
		return JoinResult{}, ErrRoomClosed
	}
}

func (m *Manager) pickWaiting() *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var fallback *Room
	for _, r := range m.rooms {
		if r.Phase() != game.PhaseWaiting {
			continue
		}
		switch n := r.NumPlayers(); {
		case n == 1:
			return r
		case n < game.MaxParticipants && fallback == nil:
			fallback = r
		}
	}
	return fallback
}

func (m *Manager) roomOf(playerID string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code, ok := m.players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	r, ok := m.rooms[code]
	if !ok {
		return nil, ErrUnknownRoom
	}
	return r, nil
}

// Leave removes the player from its room. Unknown players are ignored.
func (m *Manager) Leave(playerID string) {
	r, err := m.roomOf(playerID)
	m.mu.Lock()
	delete(m.players, playerID)
	m.mu.Unlock()
	if err != nil {
		return
	}
	r.send(Leave{PlayerID: playerID})
}

// Submit queues an action for the player's room.
func (m *Manager) Submit(playerID string, a game.Action) error {
	r, err := m.roomOf(playerID)
	if err != nil {
		return err
	}
	if !r.send(Action{PlayerID: playerID, Action: a}) {
		return ErrRoomClosed
	}
	return nil
}

// Snapshot returns a copy of the match state in room code.
func (m *Manager) Snapshot(code string) (game.Snapshot, error) {
	m.mu.RLock()
	r, ok := m.rooms[code]
	m.mu.RUnlock()
	if !ok {
		return game.Snapshot{}, ErrUnknownRoom
	}
	reply := make(chan game.Snapshot, 1)
	if !r.send(SnapshotRequest{Reply: reply}) {
		return game.Snapshot{}, ErrRoomClosed
	}
	select {
	case s := <-reply:
		return s, nil
	case <-r.Done():
		return game.Snapshot{}, ErrRoomClosed
	}
}

// ListRooms returns all active rooms with code and player count.
func (m *Manager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, Players: r.NumPlayers(), Phase: r.Phase().String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Close stops every room and waits for their loops to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for code, r := range m.rooms {
		rooms = append(rooms, r)
		delete(m.rooms, code)
	}
	m.players = make(map[string]string)
	m.mu.Unlock()

	for _, r := range rooms {
		r.Stop()
		<-r.Done()
	}
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
