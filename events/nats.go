package events

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix roots every published subject.
const DefaultSubjectPrefix = "artillery"

// NATS publishes frames on <prefix>.<room>.<type>. Publish hands the frame
// to the client's outbound buffer and returns; it never waits on the server.
type NATS struct {
	conn   *nats.Conn
	prefix string
	logger *log.Logger
}

func DialNATS(url string, logger *log.Logger) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name("artillery-server"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil && logger != nil {
				logger.Warn("nats disconnected", "err", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATS{conn: nc, prefix: DefaultSubjectPrefix, logger: logger}, nil
}

func (n *NATS) Publish(room, msgType string, frame []byte) {
	if err := n.conn.Publish(Subject(n.prefix, room, msgType), frame); err != nil && n.logger != nil {
		n.logger.Warn("nats publish failed", "room", room, "type", msgType, "err", err)
	}
}

// Close flushes pending publishes and closes the connection.
func (n *NATS) Close() error {
	return n.conn.Drain()
}

// Subject builds the publish subject. Characters NATS treats as tokens
// separators or wildcards are replaced in room codes.
func Subject(prefix, room, msgType string) string {
	clean := strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(room)
	if clean == "" {
		clean = "_"
	}
	return prefix + "." + clean + "." + msgType
}
