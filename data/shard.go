package data

import "io"

// ShardMode tags which way the shard handle returned by Get points.
type ShardMode int

const (
	// ShardRead means the shard file exists; the handle reads its bytes.
	ShardRead ShardMode = iota
	// ShardWrite means the shard file was just materialized; the caller is
	// expected to supply the payload bytes through the handle.
	ShardWrite
)

func (m ShardMode) String() string {
	switch m {
	case ShardRead:
		return "read"
	case ShardWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Shard is the payload handle attached to a record by Get. Exactly one of
// Reader or Writer is set, selected by Mode.
type Shard struct {
	Mode    ShardMode
	FileKey string

	Reader io.ReadCloser  // set when Mode == ShardRead
	Writer io.WriteCloser // set when Mode == ShardWrite
}

// Close releases whichever handle is held.
func (s *Shard) Close() error {
	if s.Reader != nil {
		return s.Reader.Close()
	}
	if s.Writer != nil {
		return s.Writer.Close()
	}
	return nil
}
