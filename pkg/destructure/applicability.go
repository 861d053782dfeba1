package destructure

// Applicable reports whether the rewrite can be offered at all: collection
// succeeded and at least one retained slot actually contributes.
func (a *Analysis) Applicable() bool {
	for _, slot := range a.Slots {
		if slot.used() {
			return true
		}
	}

	return false
}

// Suggested reports whether the rewrite should be offered proactively. The
// stricter policy avoids auto-triggering on single-field access: either an
// existing nested destructuring is being subsumed, or a strict majority of
// the aggregate's component slots carry usages.
func (a *Analysis) Suggested() bool {
	if !a.Applicable() {
		return false
	}

	occupied := 0

	for _, slot := range a.Slots {
		if slot.SubsumedEntry != nil {
			return true
		}

		if slot.used() {
			occupied++
		}
	}

	return occupied*2 > a.Aggregate.Arity()
}
