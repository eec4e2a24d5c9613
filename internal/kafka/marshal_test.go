package kafka

import (
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		BranchID string `json:"branch_id"`
	}

	got, err := UnwrapPayload[payload](json.RawMessage(`{"branch_id":"JKT"}`))
	require.NoError(t, err)
	assert.Equal(t, "JKT", got.BranchID)

	_, err = UnwrapPayload[payload](json.RawMessage(`[`))
	assert.ErrorContains(t, err, "decode payload")
}

func TestHeader(t *testing.T) {
	hs := []kafka.Header{
		{Key: "x-event-type", Value: []byte("CurrencyRatesUpdated")},
		{Key: "x-event-version", Value: []byte("1")},
	}
	assert.Equal(t, "CurrencyRatesUpdated", Header(hs, "x-event-type"))
	assert.Equal(t, "", Header(hs, "missing"))
}

func TestMustMarshalPanicsOnUnsupported(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(make(chan int)) })
	assert.JSONEq(t, `{"a":1}`, string(MustMarshal(map[string]int{"a": 1})))
}
