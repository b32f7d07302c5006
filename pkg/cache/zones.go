package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/samalone/trmnl-tides/pkg/timetricks"
)

// Zones holds resolved time zones so repeated requests for the same zone do
// not reread the zone database. Entries expire after a TTL so an updated
// tzdata on the host is picked up without a restart. It is safe for
// concurrent use.
type Zones struct {
	lru  *expirable.LRU[string, *time.Location]
	load func(string) (*time.Location, error)
}

// NewZones creates a zone cache holding at most size entries, each for ttl.
func NewZones(size int, ttl time.Duration) *Zones {
	if size <= 0 {
		size = 64
	}
	return &Zones{
		lru:  expirable.NewLRU[string, *time.Location](size, nil, ttl),
		load: timetricks.LoadZone,
	}
}

// Load returns the named zone. Failed lookups are not cached.
func (z *Zones) Load(name string) (*time.Location, error) {
	if loc, ok := z.lru.Get(name); ok {
		return loc, nil
	}
	loc, err := z.load(name)
	if err != nil {
		return nil, err
	}
	z.lru.Add(name, loc)
	return loc, nil
}

// Len reports how many zones are currently cached.
func (z *Zones) Len() int {
	return z.lru.Len()
}
