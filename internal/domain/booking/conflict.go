package booking

// FindConflict returns the first committed range overlapping the candidate.
// Ranges are half-open, so a range ending exactly where the candidate starts
// is a back-to-back booking, not a conflict. Degenerate candidates are
// rejected by NewDateRange and never reach this function.
func FindConflict(candidate DateRange, existing []DateRange) (DateRange, bool) {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return e, true
		}
	}
	return DateRange{}, false
}

func HasConflict(candidate DateRange, existing []DateRange) bool {
	_, found := FindConflict(candidate, existing)
	return found
}
