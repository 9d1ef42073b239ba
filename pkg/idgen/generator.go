package idgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// ConfirmationPrefix starts every booking confirmation code.
const ConfirmationPrefix = "CNF"

// Generator defines the interface for generating unique IDs
type Generator interface {
	GenerateID() int64
	ConfirmationCode() string
}

// SnowflakeGenerator implements the Generator interface using Twitter Snowflake
type SnowflakeGenerator struct {
	node *snowflake.Node
	mu   sync.Mutex
}

// NewSnowflakeGenerator initializes a new ID generator.
// nodeID must be unique per server instance (0-1023) to prevent collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{
		node: node,
	}, nil
}

// GenerateID returns a new unique 64-bit integer ID
func (g *SnowflakeGenerator) GenerateID() int64 {
	return g.next().Int64()
}

// ConfirmationCode returns a fresh code such as CNF8JKQ3XOWR1A.
// z-base-32 has no 0/O or 1/l pairs, so codes survive being read over the phone.
func (g *SnowflakeGenerator) ConfirmationCode() string {
	return ConfirmationPrefix + strings.ToUpper(g.next().Base32())
}

func (g *SnowflakeGenerator) next() snowflake.ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.node.Generate()
}

// NormalizeCode canonicalizes user-typed confirmation codes for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
