package httpx

import (
	"testing"
	"time"

	"github.com/omise/omise-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapChargeSuccessful(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	ch := &omise.Charge{
		Base:     omise.Base{ID: "chrg_1"},
		Status:   "successful",
		Amount:   11000,
		Currency: "usd",
		Metadata: map[string]interface{}{"booking_id": "b-1"},
		Source:   &omise.Source{Type: "alipay"},
	}

	key, payload := mapCharge(ch, now)
	assert.Equal(t, "payment.paid", key)

	evt, ok := payload.(PaymentPaid)
	require.True(t, ok)
	assert.Equal(t, "payment.paid", evt.Event)
	assert.Equal(t, 1, evt.Version)
	assert.Equal(t, "2025-06-15T10:00:00Z", evt.OccurredAt)
	assert.Equal(t, "chrg_1", evt.Data.PaymentID)
	assert.Equal(t, "b-1", evt.Data.BookingID)
	assert.Equal(t, int64(11000), evt.Data.Amount)
	assert.Equal(t, "alipay", evt.Data.Method)
	assert.Equal(t, "b-1", evt.Data.IdemKey)
}

func TestMapChargeCardFallbackMethod(t *testing.T) {
	ch := &omise.Charge{
		Base:     omise.Base{ID: "chrg_2"},
		Status:   "successful",
		Metadata: map[string]interface{}{"booking_id": "b-2"},
	}

	_, payload := mapCharge(ch, time.Now())
	evt, ok := payload.(PaymentPaid)
	require.True(t, ok)
	assert.Equal(t, "card", evt.Data.Method)
}

func TestMapChargeFailed(t *testing.T) {
	code := "insufficient_fund"
	ch := &omise.Charge{
		Base:        omise.Base{ID: "chrg_3"},
		Status:      "failed",
		Metadata:    map[string]interface{}{"booking_id": "b-3"},
		FailureCode: &code,
	}

	key, payload := mapCharge(ch, time.Now())
	assert.Equal(t, "payment.failed", key)

	evt, ok := payload.(PaymentFailed)
	require.True(t, ok)
	assert.Equal(t, "b-3", evt.Data.BookingID)
	assert.Equal(t, "insufficient_fund", evt.Data.Reason)
}
