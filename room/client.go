package room

import "sync/atomic"

const outboundQueue = 64

// client owns one connection's outbound queue. Only the writer goroutine
// touches conn.Send, so a slow peer stalls its own queue and nothing else.
type client struct {
	id     string
	name   string
	conn   Conn
	out    chan []byte
	failed atomic.Bool
}

func newClient(id, name string, conn Conn) *client {
	c := &client{
		id:   id,
		name: name,
		conn: conn,
		out:  make(chan []byte, outboundQueue),
	}
	go c.writeLoop()
	return c
}

func (c *client) writeLoop() {
	for b := range c.out {
		if c.failed.Load() {
			continue
		}
		if err := c.conn.Send(b); err != nil {
			c.failed.Store(true)
		}
	}
}

// enqueue reports false when the frame was dropped.
func (c *client) enqueue(b []byte) bool {
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	close(c.out)
	_ = c.conn.Close()
}
