package app

import "time"

// TickMsg triggers a render tick.
type TickMsg time.Time

// EvictMsg triggers a staleness check on the sample rate.
type EvictMsg time.Time
