package revalidate

import "time"

func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

var DecodeMessage = decodeMessage
