package aidl

func makeSet[t comparable](vs ...t) *set[t] {
	s := &set[t]{
		v: make(map[t]struct{}, len(vs)),
	}
	for _, v := range vs {
		s.add(v)
	}
	return s
}

type set[t comparable] struct {
	v map[t]struct{}
}

func (s *set[t]) add(v t) {
	s.v[v] = struct{}{}
}

func (s *set[t]) has(v t) bool {
	_, ok := s.v[v]
	return ok
}
