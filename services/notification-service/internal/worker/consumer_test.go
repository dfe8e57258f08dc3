package worker

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMessage struct {
	To      string
	Subject string
	Message string
}

type recordingNotifier struct {
	sent []recordedMessage
}

func (r *recordingNotifier) Send(to, subject, message string) error {
	r.sent = append(r.sent, recordedMessage{To: to, Subject: subject, Message: message})
	return nil
}

func newTestConsumer(n *recordingNotifier) *Consumer {
	return NewConsumer(Config{OpsEmail: "ops@odefoodhall.com"}, n)
}

func TestHandleDeliveryReminderDue(t *testing.T) {
	n := &recordingNotifier{}
	c := newTestConsumer(n)

	body := []byte(`{"booking_id":"b-1","type":"24h","guest_name":"Ayu","guest_email":"ayu@example.com","experience":"chefs-table","starts_at":"2025-06-15T19:00:00Z","hours_until":23.5}`)
	err := c.HandleDelivery(amqp.Delivery{RoutingKey: "reminder.due", Body: body})
	require.NoError(t, err)

	require.Len(t, n.sent, 1)
	assert.Equal(t, "ayu@example.com", n.sent[0].To)
	assert.Contains(t, n.sent[0].Subject, "tomorrow")
	assert.Contains(t, n.sent[0].Message, "chefs-table")
	assert.Contains(t, n.sent[0].Message, "2025-06-15 19:00")
}

func TestHandleDeliveryReminderDue2h(t *testing.T) {
	n := &recordingNotifier{}
	c := newTestConsumer(n)

	body := []byte(`{"booking_id":"b-2","type":"2h","guest_name":"Ayu","guest_email":"ayu@example.com","experience":"chefs-table","starts_at":"2025-06-15T19:00:00Z"}`)
	err := c.HandleDelivery(amqp.Delivery{RoutingKey: "reminder.due", Body: body})
	require.NoError(t, err)

	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0].Subject, "soon")
}

func TestHandleDeliveryBookingConfirmed(t *testing.T) {
	n := &recordingNotifier{}
	c := newTestConsumer(n)

	body := []byte(`{"booking_id":"b-3","guest_email":"ayu@example.com","experience":"chefs-table"}`)
	err := c.HandleDelivery(amqp.Delivery{RoutingKey: "booking.confirmed", Body: body})
	require.NoError(t, err)

	require.Len(t, n.sent, 1)
	assert.Equal(t, "ayu@example.com", n.sent[0].To)
	assert.Contains(t, n.sent[0].Message, "b-3")
}

func TestHandleDeliveryPaymentFailedGoesToOps(t *testing.T) {
	n := &recordingNotifier{}
	c := newTestConsumer(n)

	body := []byte(`{"event":"payment.failed","data":{"payment_id":"p-1","booking_id":"b-4","reason":"insufficient_fund"}}`)
	err := c.HandleDelivery(amqp.Delivery{RoutingKey: "payment.failed", Body: body})
	require.NoError(t, err)

	require.Len(t, n.sent, 1)
	assert.Equal(t, "ops@odefoodhall.com", n.sent[0].To)
	assert.Contains(t, n.sent[0].Message, "insufficient_fund")
}

func TestHandleDeliveryUnknownKeyIsIgnored(t *testing.T) {
	n := &recordingNotifier{}
	c := newTestConsumer(n)

	err := c.HandleDelivery(amqp.Delivery{RoutingKey: "something.else", Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Empty(t, n.sent)
}

func TestHandleDeliveryBadPayloadErrors(t *testing.T) {
	n := &recordingNotifier{}
	c := newTestConsumer(n)

	err := c.HandleDelivery(amqp.Delivery{RoutingKey: "reminder.due", Body: []byte(`not json`)})
	assert.Error(t, err)
	assert.Empty(t, n.sent)
}
