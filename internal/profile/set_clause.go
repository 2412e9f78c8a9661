package profile

import (
	"fmt"
	"strings"
)

// setClause accumulates "column = $n" assignments for a partial UPDATE.
type setClause struct {
	parts []string
	args  []any
}

func addField[T any](s *setClause, column string, f Field[T]) {
	if !f.Set {
		return
	}
	s.args = append(s.args, f.Value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) empty() bool {
	return len(s.parts) == 0
}

// build returns the SET list (with updated_at appended) and the index of the
// next positional parameter.
func (s *setClause) build() (string, int) {
	parts := append(append([]string{}, s.parts...), "updated_at = NOW()")
	return strings.Join(parts, ", "), len(s.args) + 1
}
