package orders

const (
	TopicOrderSubmitted = "order.submitted"
	TopicRatesUpdated   = "business_rules.rates.updated"
)

// Partition key = session_id, supaya event satu sesi tetap berurutan.
func PartitionKey(sessionID string) []byte { return []byte(sessionID) }
