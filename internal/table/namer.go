package table

import (
	"strconv"
	"sync"
)

// Namer hands out names for operator results: the left input's name
// followed by a counter. One Namer is shared along a pipeline; separate
// pipelines should use separate Namers.
//
// Concatenation alone is ambiguous ("t1" at 2 and "t" at 12 both give
// "t12"), so a Namer never hands out a name it has already issued or that
// was reserved; the counter moves on instead.
type Namer struct {
	mu    sync.Mutex
	n     int64
	taken map[string]struct{}
}

func NewNamer() *Namer {
	return &Namer{taken: make(map[string]struct{})}
}

// Next returns base followed by the next counter value, starting at 1,
// skipping names that are already taken.
func (n *Namer) Next(base string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	for {
		n.n++
		name := base + strconv.FormatInt(n.n, 10)
		if _, dup := n.taken[name]; !dup {
			n.taken[name] = struct{}{}
			return name
		}
	}
}

// Reserve marks name as taken, e.g. for a user-named table living beside
// generated results.
func (n *Namer) Reserve(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.taken[name] = struct{}{}
}
