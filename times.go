package lens

import "time"

// laterOf returns the later of two optional instants. A nil candidate
// never replaces a present best, any candidate seeds a nil best, and
// ties keep best.
func laterOf(best, candidate *time.Time) *time.Time {
	if candidate == nil {
		return best
	}
	if best == nil || candidate.After(*best) {
		return candidate
	}
	return best
}

// earlierOf is laterOf's mirror for the soonest instant.
func earlierOf(best, candidate *time.Time) *time.Time {
	if candidate == nil {
		return best
	}
	if best == nil || candidate.Before(*best) {
		return candidate
	}
	return best
}
