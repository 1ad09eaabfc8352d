package lockset

import (
	"fmt"
	"runtime"
)

// recordAcquire notes that the current goroutine took h and panics if a lock
// of equal or higher rank from the same set is already held. Only active when
// the validator is enabled.
func (s *LockSet) recordAcquire(h *Handle) {
	if !s.validate.Load() {
		return
	}
	gid := goroutineID()
	s.heldMu.Lock()
	defer s.heldMu.Unlock()
	ranks := s.held[gid]
	if n := len(ranks); n > 0 && ranks[n-1] >= h.rank {
		panic(fmt.Sprintf(
			"lockset: acquisition order violation: goroutine %d acquired %q (rank %d) while holding rank %d",
			gid, h.name, h.rank, ranks[n-1]))
	}
	s.held[gid] = append(ranks, h.rank)
}

// recordRelease removes h from the current goroutine's held ranks.
func (s *LockSet) recordRelease(h *Handle) {
	if !s.validate.Load() {
		return
	}
	gid := goroutineID()
	s.heldMu.Lock()
	defer s.heldMu.Unlock()
	ranks := s.held[gid]
	for i := len(ranks) - 1; i >= 0; i-- {
		if ranks[i] == h.rank {
			ranks = append(ranks[:i], ranks[i+1:]...)
			break
		}
	}
	if len(ranks) == 0 {
		delete(s.held, gid)
	} else {
		s.held[gid] = ranks
	}
}

// goroutineID parses the current goroutine's id out of runtime.Stack. Slow
// (one stack dump per call), which is why the validator is a debug facility.
func goroutineID() int64 {
	// Only the first line is needed: "goroutine 123 [running]:".
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGID(buf[:n])
}

func parseGID(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	var gid int64
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		gid = gid*10 + int64(c-'0')
	}
	return gid
}
