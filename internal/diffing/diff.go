// Package diffing classifies record changes between the two most recent
// snapshot runs.
package diffing

import (
	"sort"

	"github.com/google/uuid"
)

// Class is a change classification label.
type Class string

// The four classification labels. Every summary carries all four, zero or
// not.
const (
	ClassNew       Class = "NEW"
	ClassRemoved   Class = "REMOVED"
	ClassUpdated   Class = "UPDATED"
	ClassUnchanged Class = "UNCHANGED"
)

// Entry is one snapshot row: the derived key and fingerprint a record had
// when a run was taken.
type Entry struct {
	Key    string
	Hash   string
	ItemID uuid.UUID
}

// Summary counts classified keys per label.
type Summary struct {
	New       int `json:"NEW"`
	Removed   int `json:"REMOVED"`
	Updated   int `json:"UPDATED"`
	Unchanged int `json:"UNCHANGED"`
}

// Total returns the number of classified keys. It always equals the size of
// keys(old) ∪ keys(new) after duplicate-key collapsing.
func (s Summary) Total() int {
	return s.New + s.Removed + s.Updated + s.Unchanged
}

// Result holds the classification of one diff computation.
type Result struct {
	// Classes maps item ids to their change class. REMOVED entries are
	// keyed by the old run's item id, since the record may no longer
	// exist.
	Classes map[uuid.UUID]Class

	Summary Summary

	// DuplicateKeys lists derived keys that appeared on more than one
	// record within a single run. The later entry wins the map slot;
	// the collision is surfaced here as a data-quality signal rather
	// than hidden.
	DuplicateKeys []string
}

type mapped struct {
	hash   string
	itemID uuid.UUID
}

// Classify compares the entries of a new run against those of an old run
// (nil or empty when no prior run exists) and classifies every key as NEW,
// REMOVED, UPDATED or UNCHANGED.
func Classify(newEntries, oldEntries []Entry) Result {
	res := Result{Classes: make(map[uuid.UUID]Class, len(newEntries))}

	newMap, dupNew := buildMap(newEntries)
	oldMap, dupOld := buildMap(oldEntries)
	res.DuplicateKeys = mergeDuplicates(dupNew, dupOld)

	for key, cur := range newMap {
		old, existed := oldMap[key]
		switch {
		case !existed:
			res.Classes[cur.itemID] = ClassNew
			res.Summary.New++
		case old.hash != cur.hash:
			res.Classes[cur.itemID] = ClassUpdated
			res.Summary.Updated++
		default:
			res.Classes[cur.itemID] = ClassUnchanged
			res.Summary.Unchanged++
		}
	}

	for key, old := range oldMap {
		if _, still := newMap[key]; !still {
			res.Classes[old.itemID] = ClassRemoved
			res.Summary.Removed++
		}
	}

	return res
}

// buildMap collapses entries into key → (hash, itemID), last write winning,
// and reports the colliding keys.
func buildMap(entries []Entry) (map[string]mapped, []string) {
	m := make(map[string]mapped, len(entries))
	var dups []string
	for _, e := range entries {
		if _, seen := m[e.Key]; seen {
			dups = append(dups, e.Key)
		}
		m[e.Key] = mapped{hash: e.Hash, itemID: e.ItemID}
	}
	return m, dups
}

func mergeDuplicates(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, k := range append(a, b...) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
