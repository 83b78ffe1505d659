package orabind

// The bind registry is per statement: two ordered lists of descriptors,
// input (ubinds) and output (rbinds), each capped at MaxBinds, plus a
// lazily created name map. The map stores a tagged index so one lookup
// disambiguates the two classes.

// checkBindAvailability verifies a slot is available for a new bind and
// grows the matching list's capacity by the fixed growth step. Reused slots
// need no capacity.
func (s *Statement) checkBindAvailability(mode bindKind, reused bool) error {
	if reused {
		return nil
	}
	if mode == bindInput {
		if len(s.ubinds) >= MaxBinds {
			return getError(ErrTooManyBinds, nil)
		}
		s.ubinds = growBinds(s.ubinds)
	} else {
		if len(s.rbinds) >= MaxBinds {
			return getError(ErrTooManyBinds, nil)
		}
		s.rbinds = growBinds(s.rbinds)
	}
	return nil
}

// growBinds reallocates the slot array when full, preserving entries and
// never shrinking. Descriptors stay valid across growth because slots hold
// pointers, not descriptor values.
func growBinds(binds []*Bind) []*Bind {
	if len(binds) < cap(binds) {
		return binds
	}
	newCap := len(binds) + bindArrayGrowth
	if newCap > MaxBinds {
		newCap = MaxBinds
	}
	grown := make([]*Bind, len(binds), newCap)
	copy(grown, binds)
	return grown
}

// addBindToStatement appends the descriptor to its list and records its
// tagged index in the name map. Reused input binds already occupy their
// slot.
func (s *Statement) addBindToStatement(b *Bind, mode bindKind, reused bool) {
	if mode == bindInput {
		if reused {
			return
		}
		s.ubinds = append(s.ubinds, b)
		s.bindMap[b.name] = bindIndex{kind: bindInput, pos: len(s.ubinds)}
		return
	}
	s.rbinds = append(s.rbinds, b)
	s.bindMap[b.name] = bindIndex{kind: bindOutput, pos: len(s.rbinds)}
}

// bindIndexFor looks up a normalized name in the registry map.
func (s *Statement) bindIndexFor(name string) (bindIndex, bool) {
	if s.bindMap == nil {
		return bindIndex{}, false
	}
	idx, ok := s.bindMap[name]
	return idx, ok
}
