package httpx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/you/ode-foodhall/pkg/mq"
)

// WebhookServer turns verified Omise events into payment.paid /
// payment.failed messages on the payment exchange. Verification is by
// re-retrieving the event from Omise rather than trusting the posted
// body.
type WebhookServer struct {
	omc           *omise.Client
	publisher     *mq.Publisher
	RoutingPaid   string
	RoutingFailed string
}

func NewWebhookServer(omc *omise.Client, pub *mq.Publisher) *WebhookServer {
	return &WebhookServer{
		omc:           omc,
		publisher:     pub,
		RoutingPaid:   "payment.paid",
		RoutingFailed: "payment.failed",
	}
}

type incomingEvent struct {
	ID   string          `json:"id"`
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

type PaymentPaid struct {
	Event      string `json:"event"`       // "payment.paid"
	Version    int    `json:"version"`     // 1
	OccurredAt string `json:"occurred_at"` // RFC3339
	Data       struct {
		PaymentID string `json:"payment_id"`
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Method    string `json:"method"`
		IdemKey   string `json:"idempotency_key"`
	} `json:"data"`
}

type PaymentFailed struct {
	Event      string `json:"event"` // "payment.failed"
	Version    int    `json:"version"`
	OccurredAt string `json:"occurred_at"`
	Data       struct {
		PaymentID string `json:"payment_id"`
		BookingID string `json:"booking_id"`
		Reason    string `json:"reason"`
	} `json:"data"`
}

// mapCharge turns a completed charge into the event envelope the
// booking service consumes.
func mapCharge(ch *omise.Charge, now time.Time) (routingKey string, payload any) {
	bookingID, _ := ch.Metadata["booking_id"].(string)

	if ch.Status == "successful" {
		evt := PaymentPaid{
			Event:      "payment.paid",
			Version:    1,
			OccurredAt: now.UTC().Format(time.RFC3339),
		}
		evt.Data.PaymentID = ch.ID
		evt.Data.BookingID = bookingID
		evt.Data.Amount = ch.Amount
		evt.Data.Currency = ch.Currency
		if ch.Source != nil && ch.Source.Type != "" {
			evt.Data.Method = ch.Source.Type
		} else {
			evt.Data.Method = "card"
		}
		evt.Data.IdemKey = bookingID
		return "payment.paid", evt
	}

	evt := PaymentFailed{
		Event:      "payment.failed",
		Version:    1,
		OccurredAt: now.UTC().Format(time.RFC3339),
	}
	evt.Data.PaymentID = ch.ID
	evt.Data.BookingID = bookingID
	if ch.FailureCode != nil {
		evt.Data.Reason = *ch.FailureCode
	}
	return "payment.failed", evt
}

func (s *WebhookServer) Handler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var inc incomingEvent
	if err := json.NewDecoder(r.Body).Decode(&inc); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// confirm the event with Omise before acting on it
	ev := &omise.Event{}
	if err := s.omc.Do(ev, &operations.RetrieveEvent{EventID: inc.ID}); err != nil {
		log.Printf("[webhook] retrieve event error: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch ev.Key {
	case "charge.complete":
		raw, err := json.Marshal(ev.Data)
		if err != nil {
			log.Printf("[webhook] marshal ev.Data error: %v", err)
			w.WriteHeader(http.StatusOK)
			return
		}
		var ch omise.Charge
		if err := json.Unmarshal(raw, &ch); err != nil {
			log.Printf("[webhook] unmarshal charge error: %v", err)
			w.WriteHeader(http.StatusOK)
			return
		}

		key, payload := mapCharge(&ch, time.Now())
		if err := s.publisher.PublishJSON(context.Background(), key, payload); err != nil {
			log.Printf("[webhook] publish %s error: %v", key, err)
		} else {
			log.Printf("[webhook] published %s", key)
		}
	default:
		log.Printf("[webhook] skip event key=%s", ev.Key)
	}

	w.WriteHeader(http.StatusOK)
}
