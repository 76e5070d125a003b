package audit

import (
	"context"
)

// Recorder appends audit entries. Implementations must write through
// the ambient transaction in ctx so the entry commits or rolls back
// together with the mutation that produced it.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
