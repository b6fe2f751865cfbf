// Package events forwards room lifecycle frames to outside consumers.
package events

import (
	"github.com/charmbracelet/log"
)

// Sink receives encoded lifecycle frames. Publish must not block the
// caller's tick.
type Sink interface {
	Publish(room, msgType string, frame []byte)
}

// Multi fans a frame out to every sink.
type Multi []Sink

func (m Multi) Publish(room, msgType string, frame []byte) {
	for _, s := range m {
		if s != nil {
			s.Publish(room, msgType, frame)
		}
	}
}

// Log records each event at debug level.
type Log struct {
	Logger *log.Logger
}

func (l Log) Publish(room, msgType string, frame []byte) {
	if l.Logger == nil {
		return
	}
	l.Logger.Debug("event", "room", room, "type", msgType, "bytes", len(frame))
}

// Discard drops everything.
type Discard struct{}

func (Discard) Publish(string, string, []byte) {}
