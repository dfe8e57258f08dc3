package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/you/ode-foodhall/pkg/mq"
	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/repository"
)

type PaymentPaid struct {
	Event   string `json:"event"`   // "payment.paid"
	Version int    `json:"version"` // 1
	Data    struct {
		PaymentID string `json:"payment_id"`
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Method    string `json:"method"`
		IdemKey   string `json:"idempotency_key"`
	} `json:"data"`
}

type PaymentFailed struct {
	Event   string `json:"event"` // "payment.failed"
	Version int    `json:"version"`
	Data    struct {
		PaymentID string `json:"payment_id"`
		BookingID string `json:"booking_id"`
		Reason    string `json:"reason"`
	} `json:"data"`
}

// PaymentConsumer applies payment outcomes to bookings: paid confirms
// the booking, failed releases its seats. Both paths are idempotent
// against redelivery.
type PaymentConsumer struct {
	repo *repository.BookingRepo
	cons *mq.Consumer
	pub  *mq.Publisher
}

func NewPaymentConsumer(repo *repository.BookingRepo, cons *mq.Consumer, pub *mq.Publisher) *PaymentConsumer {
	return &PaymentConsumer{repo: repo, cons: cons, pub: pub}
}

func (pc *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := pc.cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			switch d.RoutingKey {
			case "payment.paid":
				var evt PaymentPaid
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					log.Printf("[booking-consumer] unmarshal error: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				if evt.Data.BookingID == "" || evt.Data.PaymentID == "" {
					log.Printf("[booking-consumer] invalid payment.paid payload")
					_ = d.Ack(false)
					continue
				}
				b, err := pc.repo.ConfirmIfNotProcessed(ctx, evt.Data.BookingID, evt.Data.PaymentID, "payment.paid")
				if err != nil {
					log.Printf("[booking-consumer] confirm error: %v", err)
					_ = d.Nack(false, true)
					continue
				}
				// a booking cancelled before the payment settled stays
				// cancelled; no confirmation goes out for it
				if b.Status == domain.BookingConfirmed {
					_ = pc.pub.PublishJSON(ctx, "booking.confirmed", map[string]any{
						"booking_id":  b.ID,
						"guest_email": b.GuestEmail,
						"experience":  b.ExperienceSlug,
					})
				}
				_ = d.Ack(false)

			case "payment.failed":
				var evt PaymentFailed
				if err := json.Unmarshal(d.Body, &evt); err != nil {
					log.Printf("[booking-consumer] unmarshal error: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				if evt.Data.BookingID == "" || evt.Data.PaymentID == "" {
					log.Printf("[booking-consumer] invalid payment.failed payload")
					_ = d.Ack(false)
					continue
				}
				if _, err := pc.repo.FailIfNotProcessed(ctx, evt.Data.BookingID, evt.Data.PaymentID, "payment.failed"); err != nil {
					log.Printf("[booking-consumer] fail error: %v", err)
					_ = d.Nack(false, true)
					continue
				}
				_ = d.Ack(false)

			default:
				_ = d.Ack(false)
			}
		}
	}()
	return nil
}
