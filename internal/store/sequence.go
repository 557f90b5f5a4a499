package store

import "strconv"

// sequence hands out catalog ids. It is independent of catalog contents: the
// next id is always one past the largest id ever stored, starting at "1".
//
// sequence has no lock of its own; every caller holds the owning catalog's
// write lock.
type sequence struct {
	last uint64
}

// next reserves and returns the next id.
func (s *sequence) next() string {
	s.last++
	return strconv.FormatUint(s.last, 10)
}

// accepts reports whether id may be inserted explicitly without breaking
// the ordering of ids.
func (s *sequence) accepts(id string) bool {
	n, err := strconv.ParseUint(id, 10, 64)
	return err == nil && n > s.last
}

// observe advances the sequence past an explicitly inserted id.
// Call only after accepts returned true.
func (s *sequence) observe(id string) {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil && n > s.last {
		s.last = n
	}
}
