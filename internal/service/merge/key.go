package merge

import (
	"hash/maphash"
	"time"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
)

// rowKey structural key of a restriction. Unused parts stay zero:
// a scope key leaves Type empty, a group key leaves the period empty.
type rowKey struct {
	hotelID   string
	typ       domain.RestrictionType
	rooms     []string
	ratePlans []string
	from      time.Time
	to        time.Time
	weekdays  []domain.Weekday
}

func scopeKeyOf(r *domain.Restriction) rowKey {
	return rowKey{hotelID: r.HotelID, rooms: r.RoomProductIDs, ratePlans: r.RatePlanIDs}
}

func groupKeyOf(r *domain.Restriction) rowKey {
	k := scopeKeyOf(r)
	k.typ = r.Type
	return k
}

func dedupKeyOf(r *domain.Restriction) rowKey {
	k := groupKeyOf(r)
	k.from = r.FromDate
	k.to = r.ToDate
	k.weekdays = r.Weekdays
	return k
}

// hash expects normalized id and weekday slices
func (k rowKey) hash(seed maphash.Seed) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)

	writeString := func(s string) {
		h.WriteString(s)
		h.WriteByte(0)
	}

	writeString(k.hotelID)
	writeString(string(k.typ))
	for _, id := range k.rooms {
		writeString(id)
	}
	h.WriteByte(1)
	for _, id := range k.ratePlans {
		writeString(id)
	}
	h.WriteByte(1)
	writeString(k.from.Format(domain.DateFormat))
	writeString(k.to.Format(domain.DateFormat))
	for _, w := range k.weekdays {
		writeString(string(w))
	}

	return h.Sum64()
}

func (k rowKey) equal(other rowKey) bool {
	return k.hotelID == other.hotelID &&
		k.typ == other.typ &&
		domain.SameIDSet(k.rooms, other.rooms) &&
		domain.SameIDSet(k.ratePlans, other.ratePlans) &&
		k.from.Equal(other.from) &&
		k.to.Equal(other.to) &&
		domain.SameWeekdays(k.weekdays, other.weekdays)
}

// keyedIndex insertion-ordered map from rowKey to V
type keyedIndex[V any] struct {
	seed    maphash.Seed
	buckets map[uint64][]*keyedEntry[V]
	entries []*keyedEntry[V]
}

type keyedEntry[V any] struct {
	key   rowKey
	value V
}

func newKeyedIndex[V any]() *keyedIndex[V] {
	return &keyedIndex[V]{
		seed:    maphash.MakeSeed(),
		buckets: make(map[uint64][]*keyedEntry[V]),
	}
}

// getOrAdd returns the entry for key, creating it with init when absent
func (idx *keyedIndex[V]) getOrAdd(key rowKey, init func() V) *keyedEntry[V] {
	sum := key.hash(idx.seed)
	for _, e := range idx.buckets[sum] {
		if e.key.equal(key) {
			return e
		}
	}

	e := &keyedEntry[V]{key: key, value: init()}
	idx.buckets[sum] = append(idx.buckets[sum], e)
	idx.entries = append(idx.entries, e)
	return e
}
