package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/framefold/remap/pkg/engine"
)

// DefaultMirrorTTL bounds how long mirrored payloads outlive the session
// that published them.
const DefaultMirrorTTL = 24 * time.Hour

// RedisMirror is an [Observer] that mirrors published payloads into Redis
// so external consumers (preview renderers, other editor instances) can
// read them without holding a reference to the in-process store.
//
// Mirroring is best-effort: a Redis failure is logged and dropped, it never
// blocks or fails the evaluation pass.
type RedisMirror struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *log.Logger
}

// mirrorEnvelope is the mirrored wire format: the payload plus the change
// kind so consumers can distinguish draft refreshes without diffing.
type mirrorEnvelope struct {
	NodeID   string         `json:"node_id"`
	HandleID string         `json:"handle_id"`
	Change   string         `json:"change"`
	Payload  engine.Payload `json:"payload"`
}

// NewRedisMirror creates a payload mirror writing under the given key
// prefix. A nil logger discards mirror errors silently.
func NewRedisMirror(client *redis.Client, prefix string, logger *log.Logger) *RedisMirror {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &RedisMirror{
		client: client,
		prefix: prefix,
		ttl:    DefaultMirrorTTL,
		logger: logger,
	}
}

// OnPayload implements [Observer].
func (m *RedisMirror) OnPayload(nodeID, handleID string, p engine.Payload, kind ChangeKind) {
	data, err := json.Marshal(mirrorEnvelope{
		NodeID:   nodeID,
		HandleID: handleID,
		Change:   kind.String(),
		Payload:  p,
	})
	if err != nil {
		m.logger.Warn("mirror: marshal payload", "node", nodeID, "err", err)
		return
	}

	key := m.key(nodeID, handleID)
	if err := m.client.Set(context.Background(), key, data, m.ttl).Err(); err != nil {
		m.logger.Warn("mirror: redis set", "key", key, "err", err)
	}
}

func (m *RedisMirror) key(nodeID, handleID string) string {
	return fmt.Sprintf("%spayload:%s:%s", m.prefix, nodeID, handleID)
}

// Ensure RedisMirror implements Observer.
var _ Observer = (*RedisMirror)(nil)
