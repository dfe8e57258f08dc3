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
	"github.com/kelseyhightower/envconfig"
	"github.com/omise/omise-go"

	"github.com/you/ode-foodhall/pkg/mq"
	"github.com/you/ode-foodhall/pkg/obs"
	httpx "github.com/you/ode-foodhall/services/payment-service/internal/http"
	omisecli "github.com/you/ode-foodhall/services/payment-service/internal/omise"
)

type Cfg struct {
	WebhookHTTPAddr string `envconfig:"PAYMENT_WEBHOOK_HTTP_ADDR" default:":8081"`
	OmisePub        string `envconfig:"OMISE_PUBLIC_KEY" required:"true"`
	OmiseSec        string `envconfig:"OMISE_SECRET_KEY" required:"true"`
	RabbitURL       string `envconfig:"RABBIT_URL" required:"true"`
	PaymentExchange string `envconfig:"PAYMENT_EXCHANGE" default:"payment.exchange"`
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load(".env")
	var cfg Cfg
	must(0, envconfig.Process("", &cfg))

	shutdownTracer := obs.InitTracer("payment-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	var omc *omise.Client = must(omisecli.NewOmiseClient(cfg.OmisePub, cfg.OmiseSec))

	pub := must(mq.NewPublisher(cfg.RabbitURL, cfg.PaymentExchange))
	defer pub.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/webhooks/omise", httpx.NewWebhookServer(omc, pub).Handler)
	srv := &http.Server{Addr: cfg.WebhookHTTPAddr, Handler: mux}

	go func() {
		log.Println("[payment] webhook http listening on", cfg.WebhookHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Println("[payment] stopped")
}
