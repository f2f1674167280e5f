package classify

import "fitlog/workout"

// ClassifyImportEntries splits import candidates into entries to append and
// exact duplicates of stored entries. Candidates accepted earlier in the
// same batch count as stored, so a source file repeating a row appends it
// only once.
func ClassifyImportEntries(candidates, existing []workout.Entry) ([]workout.Entry, int) {
	toAdd := make([]workout.Entry, 0, len(candidates))
	duplicates := 0

	for _, candidate := range candidates {
		isDuplicate := false
		for _, existingEntry := range existing {
			if workout.EntriesEquivalent(existingEntry, candidate) {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			for _, accepted := range toAdd {
				if workout.EntriesEquivalent(accepted, candidate) {
					isDuplicate = true
					break
				}
			}
		}
		if isDuplicate {
			duplicates++
			continue
		}

		toAdd = append(toAdd, candidate)
	}

	return toAdd, duplicates
}
