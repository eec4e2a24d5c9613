package redisx

import "time"

const (
	// Sesi komposisi order: compose:session:{session_id} -> JSON orders.Composition
	KeySession = "compose:session:%s"

	// Cache rate per cabang: rates:branch:{branch_id|global} -> JSON currency.RateSet
	KeyRates = "rates:branch:%s"

	// Naik setiap invalidasi; load yang mulai sebelum invalidasi tidak boleh menulis cache
	KeyRatesGen = "rates:gen"

	// Submit sekali saja: idem:order:submit:{session_id} -> event_id
	KeyIdemSubmit = "idem:order:submit:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

// GlobalBranch is the cache slot for the rate set without branch override.
const GlobalBranch = "global"

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
