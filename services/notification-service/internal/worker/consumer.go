package worker

import (
	"context"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/ode-foodhall/services/notification-service/internal/events"
	"github.com/you/ode-foodhall/services/notification-service/internal/notifier"
)

type Config struct {
	RabbitURL   string
	Exchanges   []string
	Queue       string
	Bindings    []string
	Prefetch    int
	UseDLX      bool
	DLXName     string
	DLXQueue    string
	ServiceName string
	OpsEmail    string // fallback recipient for staff-facing events
}

type Consumer struct {
	cfg      Config
	notifier notifier.Notifier

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg Config, n notifier.Notifier) *Consumer {
	return &Consumer{cfg: cfg, notifier: n}
}

func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}

	args := amqp.Table{}
	if c.cfg.UseDLX {
		args["x-dead-letter-exchange"] = c.cfg.DLXName
	}

	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, args)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue failed: %w", err)
	}

	for _, ex := range c.cfg.Exchanges {
		if err := ch.ExchangeDeclare(ex, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("declare exchange %s failed: %w", ex, err)
		}
		for _, key := range c.cfg.Bindings {
			if err := ch.QueueBind(q.Name, key, ex, false, nil); err != nil {
				_ = ch.Close()
				_ = conn.Close()
				return fmt.Errorf("bind queue to exchange=%s key=%s failed: %w", ex, key, err)
			}
		}
	}

	if c.cfg.UseDLX {
		if err := ch.ExchangeDeclare(c.cfg.DLXName, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("declare dlx failed: %w", err)
		}
		if _, err := ch.QueueDeclare(c.cfg.DLXQueue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("declare dlq failed: %w", err)
		}
		if err := ch.QueueBind(c.cfg.DLXQueue, "#", c.cfg.DLXName, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("bind dlq failed: %w", err)
		}
	}

	if c.cfg.Prefetch <= 0 {
		c.cfg.Prefetch = 8
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos failed: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.ServiceName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.HandleDelivery(d); err != nil {
				log.Printf("[notify] handle error key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) HandleDelivery(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKBookingCreated:
		ev, err := events.MustUnmarshal[events.BookingCreated](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Send(c.cfg.OpsEmail, "Booking created",
			fmt.Sprintf("Booking %s: %s on %s at %s for %d guests (%d %s).",
				ev.BookingID, ev.Experience, ev.Date, ev.TimeSlot, ev.Guests, ev.Amount, ev.Currency))

	case events.RKBookingConfirmed:
		ev, err := events.MustUnmarshal[events.BookingConfirmed](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Send(ev.GuestEmail, "Your ODE Food Hall booking is confirmed",
			fmt.Sprintf("Booking %s for %s is confirmed. See you soon!", ev.BookingID, ev.Experience))

	case events.RKBookingCancelled:
		ev, err := events.MustUnmarshal[events.BookingSimple](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Send(c.cfg.OpsEmail, "Booking cancelled",
			fmt.Sprintf("Booking %s has been cancelled.", ev.BookingID))

	case events.RKPaymentPaid:
		ev, err := events.MustUnmarshal[events.PaymentEnvelope](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Send(c.cfg.OpsEmail, "Payment received",
			fmt.Sprintf("Booking %s paid %d %s (payment=%s).",
				ev.Data.BookingID, ev.Data.Amount, ev.Data.Currency, ev.Data.PaymentID))

	case events.RKPaymentFailed:
		ev, err := events.MustUnmarshal[events.PaymentEnvelope](d.Body)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Payment failed for booking %s (payment=%s).", ev.Data.BookingID, ev.Data.PaymentID)
		if ev.Data.Reason != "" {
			msg = fmt.Sprintf("%s Reason: %s", msg, ev.Data.Reason)
		}
		return c.notifier.Send(c.cfg.OpsEmail, "Payment failed", msg)

	case events.RKReminderDue:
		ev, err := events.MustUnmarshal[events.ReminderDue](d.Body)
		if err != nil {
			return err
		}
		subject := "Your ODE Food Hall visit is tomorrow"
		if ev.Type == "2h" {
			subject = "Your ODE Food Hall visit starts soon"
		}
		return c.notifier.Send(ev.GuestEmail, subject,
			fmt.Sprintf("Hi %s, a reminder that %s starts at %s.",
				ev.GuestName, ev.Experience, notifier.HumanStart(ev.StartsAt)))

	case events.RKVendorApplied:
		ev, err := events.MustUnmarshal[events.VendorApplied](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Send(c.cfg.OpsEmail, "New vendor application",
			fmt.Sprintf("%s (%s) applied to join the hall (id=%s).", ev.BusinessName, ev.Cuisine, ev.ApplicationID))

	default:
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
	}
	return nil
}
