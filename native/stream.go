package native

import "errors"

var errUnexpectedToken = errors.New("unexpected token")

// tokenStream walks value nodes for shorthand transforms.
type tokenStream struct {
	nodes    []node
	index    int
	saved    int
	lastNode node
}

func newTokenStream(nodes []node) *tokenStream {
	return &tokenStream{nodes: nodes}
}

func (s *tokenStream) hasTokens() bool {
	return s.index < len(s.nodes)
}

// match advances stream when the current node satisfies any of matchers.
func (s *tokenStream) match(matchers ...matcher) (any, bool) {
	if !s.hasTokens() {
		return nil, false
	}
	n := s.nodes[s.index]
	for _, m := range matchers {
		if v, ok := m(n); ok {
			s.index++
			s.lastNode = n
			return v, true
		}
	}
	return nil, false
}

// matches reports whether current node satisfies any of matchers advancing
// stream on success.
func (s *tokenStream) matches(matchers ...matcher) bool {
	_, ok := s.match(matchers...)
	return ok
}

// expect is match which fails with error.
func (s *tokenStream) expect(matchers ...matcher) (any, error) {
	if v, ok := s.match(matchers...); ok {
		return v, nil
	}
	return nil, errUnexpectedToken
}

func (s *tokenStream) expectEmpty() error {
	if s.hasTokens() {
		return errUnexpectedToken
	}
	return nil
}

func (s *tokenStream) save() {
	s.saved = s.index
}

func (s *tokenStream) rewind() {
	s.index = s.saved
}
