package uid

import (
	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-sortable int64 identifiers using the snowflake
// scheme. Node numbers must be unique per running instance.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a Snowflake generator for the given node number.
// node must be within [0, 1023].
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: n}, nil
}

// Generate returns a new time-sortable int64 identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
