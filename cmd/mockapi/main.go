package main

import (
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/dzungnguyen14/aiowallet-app/internal/mockapi"
	"github.com/dzungnguyen14/aiowallet-app/internal/money"
)

func main() {
	money.EncodeAmountsAsNumbers()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "aiowallet_dev_secret_change_me"
	}

	srv := mockapi.New(secret)

	// Two funded demo accounts so the CLI has something to talk to.
	if _, err := srv.Seed("demo@aiowallet.dev", "demo-pass-123", "Demo User", decimal.NewFromInt(100)); err != nil {
		log.Fatalf("seed demo account: %v", err)
	}
	friendID, err := srv.Seed("friend@aiowallet.dev", "friend-pass-123", "Demo Friend", decimal.NewFromInt(50))
	if err != nil {
		log.Fatalf("seed friend account: %v", err)
	}

	log.Printf("demo login: demo@aiowallet.dev / demo-pass-123")
	log.Printf("demo recipient id: %s", friendID)
	log.Printf("mock wallet API listening on :%s", port)

	if err := srv.App().Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
