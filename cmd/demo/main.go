package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"mbills-payments/internal/config"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/infra/adapters/mbills"
	"mbills-payments/internal/infra/db/memory"
	"mbills-payments/internal/infra/logging"
	"mbills-payments/internal/infra/security"
	"mbills-payments/internal/usecase"
)

// Demo: checks the gateway connection and starts a one-item payment against
// an in-memory correlation store, then prints the deep link and QR code.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	// 2. Gateway wiring
	tokens := security.NewTokenGenerator(nil)
	signer, err := mbills.NewSigner(cfg.MBills.APIKey, cfg.MBills.APISecret, tokens, nil)
	if err != nil {
		log.Fatalf("signer error: %v", err)
	}
	gw := usecase.GatewayDeps{
		Transport:  mbills.NewHTTPTransport(nil, cfg.MBills.Timeout, logger),
		Signer:     signer,
		Endpoints:  mbills.NewEndpoints(cfg.MBills.Production, cfg.MBills.BaseURL),
		Production: cfg.MBills.Production,
	}
	paymentUC := usecase.NewPaymentUseCase(memory.NewCorrelationStore(), gw, tokens, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// 3. Connection test (onboarding only)
	status := "FAIL"
	if paymentUC.TestConnection(ctx) {
		status = "OK"
	}
	fmt.Printf("Connection to mBills: %s\n", status)

	// 4. Itemized payment
	req := usecase.ItemizedPaymentRequest("", model.CurrencyEUR, cfg.MBills.WebhookURL, cfg.MBills.AppName, "", "", cfg.MBills.ChannelID)
	req.AddItem("Pepsi", 120, 1)

	res, err := paymentUC.RequestPayment(ctx, req)
	if err != nil {
		log.Fatalf("payment initialization failed: %v", err)
	}
	fmt.Printf("Deep link: %s\n", res.DeepLink)
	fmt.Printf("QR code:   %s\n", res.QRCodeURL(false))
}
