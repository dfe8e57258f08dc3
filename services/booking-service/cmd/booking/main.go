package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/ode-foodhall/pkg/clock"
	"github.com/you/ode-foodhall/pkg/config"
	"github.com/you/ode-foodhall/pkg/db"
	"github.com/you/ode-foodhall/pkg/mq"
	"github.com/you/ode-foodhall/pkg/obs"
	cons "github.com/you/ode-foodhall/services/booking-service/internal/consumer"
	"github.com/you/ode-foodhall/services/booking-service/internal/payment"
	"github.com/you/ode-foodhall/services/booking-service/internal/repository"
	"github.com/you/ode-foodhall/services/booking-service/internal/service"
	httpapi "github.com/you/ode-foodhall/services/booking-service/internal/transport/http"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load(".env")
	cfg := must(config.Load())

	shutdownTracer := obs.InitTracer("booking-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	// DB + repos
	gdb := db.Open(cfg.PGBookingDSN)
	bookingRepo := repository.NewBookingRepo(gdb)
	must(0, bookingRepo.Migrate())
	experienceRepo := repository.NewExperienceRepo(gdb)
	must(0, experienceRepo.Migrate())
	staffRepo := repository.NewStaffRepo(gdb)
	must(0, staffRepo.Migrate())
	vendorRepo := repository.NewVendorRepo(gdb)
	must(0, vendorRepo.Migrate())

	// Publisher for booking.* and reminder.due events
	bookingPub := must(mq.NewPublisher(cfg.RabbitURL, cfg.BookingExchange))
	defer bookingPub.Close()

	// Omise-backed checkout sessions
	checkout := must(payment.NewOmiseCheckout(cfg.OmisePublicKey, cfg.OmiseSecretKey, cfg.SourceType))

	clk := clock.NewSystem()
	checkoutSvc := service.NewCheckoutSvc(experienceRepo, bookingRepo, checkout, bookingPub, clk, cfg.PublicBaseURL, cfg.Currency)
	reminderSvc := service.NewReminderSvc(bookingRepo, bookingPub, clk)
	experienceSvc := service.NewExperienceSvc(experienceRepo)
	vendorSvc := service.NewVendorSvc(vendorRepo, bookingPub)
	authSvc := service.NewAuthSvc(staffRepo, time.Duration(cfg.JWTExpireMin)*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	must(0, authSvc.EnsureSeed(ctx, cfg.AdminEmail, cfg.AdminPassword))

	// Consume payment outcomes published by payment-service
	paymentCons := must(mq.NewConsumer(cfg.RabbitURL, cfg.PaymentExchange, cfg.PaymentQueue, []string{"payment.paid", "payment.failed"}))
	defer paymentCons.Close()
	pc := cons.NewPaymentConsumer(bookingRepo, paymentCons, bookingPub)
	must(0, pc.Run(ctx))
	log.Println("[booking] consumer started (payment.paid, payment.failed)")

	// Periodic reminder scan; the HTTP endpoint serves external schedulers
	go reminderSvc.RunTicker(ctx, time.Duration(cfg.ReminderScanMin)*time.Minute, func(err error) {
		log.Printf("[booking] reminder scan error: %v", err)
	})

	router := httpapi.NewRouter(checkoutSvc, reminderSvc, experienceSvc, vendorSvc, authSvc, cfg.PublicAPIKey)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Println("[booking] http listening on", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Println("[booking] stopped")
}
