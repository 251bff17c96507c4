package availability

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

type cacheKey struct {
	doctorID   uuid.UUID
	locationID uuid.UUID
	date       civil.Date
}

// Cache holds resolved free windows per (doctor, location, date). Entries
// are dropped for a single day when an appointment on that day changes, and
// wholesale when office-hour rules change.
type Cache struct {
	lru *lru.Cache[cacheKey, []Window]
}

// NewCache creates a cache bounded to size entries.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[cacheKey, []Window](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

func (c *Cache) Get(doctorID, locationID uuid.UUID, date civil.Date) ([]Window, bool) {
	return c.lru.Get(cacheKey{doctorID: doctorID, locationID: locationID, date: date})
}

func (c *Cache) Store(doctorID, locationID uuid.UUID, date civil.Date, windows []Window) {
	c.lru.Add(cacheKey{doctorID: doctorID, locationID: locationID, date: date}, windows)
}

// Remove drops the entry for one day. Implements appointment.DayInvalidator.
func (c *Cache) Remove(doctorID, locationID uuid.UUID, date civil.Date) {
	c.lru.Remove(cacheKey{doctorID: doctorID, locationID: locationID, date: date})
}

// Purge drops every entry. Implements officehours.Invalidator.
func (c *Cache) Purge() {
	c.lru.Purge()
}
