package tool

import (
	"fmt"
	"sync/atomic"
	"time"
)

const idTimeLayout = "20060102150405"

// idGenerator mints PREFIX-<yyyymmddhhmmss><millis>-<seq>. The sequence keeps two ids
// minted in the same millisecond distinct within one process.
type idGenerator struct {
	seq atomic.Uint64
}

func (g *idGenerator) next(prefix string, now time.Time) string {
	n := g.seq.Add(1)
	return fmt.Sprintf("%s-%s%03d-%d", prefix, now.Format(idTimeLayout), now.Nanosecond()/int(time.Millisecond), n)
}
