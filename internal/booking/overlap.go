package booking

// Two overlap rules coexist. OverlapsInclusive guards the persisted
// no-double-booking invariant; OverlapsHalfOpen answers availability queries.
// They disagree on ranges that only touch at a boundary date, so keep them
// separate.

// OverlapsInclusive reports whether candidate collides with existing under the
// stored-reservation rule: the candidate's start or end falls inside the
// existing range (boundaries included), or the candidate covers it entirely.
func OverlapsInclusive(candidate, existing Stay) bool {
	cs, ce := Day(candidate.Start), Day(candidate.End)
	es, ee := Day(existing.Start), Day(existing.End)

	startInside := !cs.Before(es) && !cs.After(ee)
	endInside := !ce.Before(es) && !ce.After(ee)
	covers := !cs.After(es) && !ce.Before(ee)

	return startInside || endInside || covers
}

// OverlapsHalfOpen reports whether existing.Start < candidate.End and
// existing.End > candidate.Start.
func OverlapsHalfOpen(candidate, existing Stay) bool {
	return Day(existing.Start).Before(Day(candidate.End)) &&
		Day(existing.End).After(Day(candidate.Start))
}

// IsAvailable applies the availability rule to an in-memory set of the
// cabin's reservations. Callers filter out the reservation being edited
// before calling. An empty or inverted candidate is never available.
func IsAvailable(candidate Stay, booked []Stay) bool {
	if !candidate.Valid() {
		return false
	}
	for _, b := range booked {
		if OverlapsHalfOpen(candidate, b) {
			return false
		}
	}
	return true
}

// FirstInclusiveConflict returns the index of the first stay in booked that
// collides with candidate under the inclusive rule, or -1.
func FirstInclusiveConflict(candidate Stay, booked []Stay) int {
	for i, b := range booked {
		if OverlapsInclusive(candidate, b) {
			return i
		}
	}
	return -1
}
