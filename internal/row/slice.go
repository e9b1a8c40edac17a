package row

// Slice selects positions the way a half-open range with an optional step
// does: negative bounds count from the end, out-of-range bounds clamp, and an
// unset bound means "from the beginning" or "to the end" in step direction.
// A zero Step means 1.
type Slice struct {
	Start, Stop       int
	HasStart, HasStop bool
	Step              int
}

// Span selects [start, stop).
func Span(start, stop int) Slice {
	return Slice{Start: start, Stop: stop, HasStart: true, HasStop: true}
}

// From selects [start, end).
func From(start int) Slice {
	return Slice{Start: start, HasStart: true}
}

// Until selects [0, stop).
func Until(stop int) Slice {
	return Slice{Stop: stop, HasStop: true}
}

// Every selects all positions with the given step.
func Every(step int) Slice {
	return Slice{Step: step}
}

// WithStep returns s with its step replaced.
func (s Slice) WithStep(step int) Slice {
	s.Step = step
	return s
}

// Indices resolves s against a sequence of length n, returning the first
// position, the exclusive stop and the step.
func (s Slice) Indices(n int) (start, stop, step int) {
	step = s.Step
	if step == 0 {
		step = 1
	}

	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}

	clamp := func(v int) int {
		if v < 0 {
			v += n
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}

	if s.HasStart {
		start = clamp(s.Start)
	} else if step < 0 {
		start = upper
	} else {
		start = lower
	}

	if s.HasStop {
		stop = clamp(s.Stop)
	} else if step < 0 {
		stop = lower
	} else {
		stop = upper
	}
	return start, stop, step
}

// apply returns the selected elements of values as a new slice.
func (s Slice) apply(values []any) []any {
	start, stop, step := s.Indices(len(values))
	out := []any{}
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, values[i])
		}
		return out
	}
	for i := start; i > stop; i += step {
		out = append(out, values[i])
	}
	return out
}
