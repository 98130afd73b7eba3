package calendar

import (
	"slices"

	"github.com/alexanderramin/feather/internal/domain"
)

// Reconstruct rebuilds the ordered plan list of every date from records
// that arrive in no particular order.
//
// Every date in dates gets a bucket, even an empty one, so a caller can
// replace a whole range at once. A record whose predecessor has not been
// placed yet is reserved and retried after each pass; passes stop once a
// pass places nothing new. Whatever is still reserved then (a dangling prv,
// a plan moved away from under its successor, a cycle) is appended to its
// date with Prv cleared. Nothing is ever dropped.
func Reconstruct(dates []string, records []domain.Plan) map[string][]domain.Plan {
	buckets := make(map[string][]domain.Plan, len(dates))
	for _, d := range dates {
		buckets[d] = []domain.Plan{}
	}

	var reserves []domain.Plan
	for _, p := range records {
		if p.StyleID == "" {
			p.StyleID = domain.DefaultStyleID
		}
		if !place(buckets, p) {
			reserves = append(reserves, p)
		}
	}

	for len(reserves) > 0 {
		var next []domain.Plan
		for _, p := range reserves {
			if !place(buckets, p) {
				next = append(next, p)
			}
		}
		if len(next) == len(reserves) {
			break
		}
		reserves = next
	}

	for _, p := range reserves {
		p.Prv = ""
		buckets[p.DateStr] = append(buckets[p.DateStr], p)
	}
	return buckets
}

// place inserts p right after its predecessor, or at the end when it has
// none. It reports false when the predecessor is not in the bucket yet.
func place(buckets map[string][]domain.Plan, p domain.Plan) bool {
	list := buckets[p.DateStr]
	if p.Prv == "" {
		buckets[p.DateStr] = append(list, p)
		return true
	}
	for i := range list {
		if list[i].ID == p.Prv {
			buckets[p.DateStr] = slices.Insert(list, i+1, p)
			return true
		}
	}
	return false
}

// Relink returns a copy of plans whose Prv fields follow slice order.
func Relink(plans []domain.Plan) []domain.Plan {
	out := make([]domain.Plan, len(plans))
	prv := ""
	for i, p := range plans {
		p.Prv = prv
		out[i] = p
		prv = p.ID
	}
	return out
}
