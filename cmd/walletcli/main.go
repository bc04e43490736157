package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dzungnguyen14/aiowallet-app/internal/auth"
	"github.com/dzungnguyen14/aiowallet-app/internal/config"
	"github.com/dzungnguyen14/aiowallet-app/internal/credentials"
	"github.com/dzungnguyen14/aiowallet-app/internal/format"
	"github.com/dzungnguyen14/aiowallet-app/internal/gateway"
	"github.com/dzungnguyen14/aiowallet-app/internal/money"
	"github.com/dzungnguyen14/aiowallet-app/internal/reports"
	"github.com/dzungnguyen14/aiowallet-app/internal/store"
)

func main() {
	cmd := flag.String("cmd", "balance", "Command: login|logout|whoami|balance|send|topup|txns|statement")
	email := flag.String("email", "", "Email (login)")
	password := flag.String("password", "", "Password (login)")
	to := flag.String("to", "", "Recipient user ID (send)")
	amountFlag := flag.String("amount", "", "Amount (send/topup)")
	desc := flag.String("desc", "", "Description (send)")
	method := flag.String("method", "card", "Payment method (topup)")
	page := flag.Int("page", 1, "Page (txns)")
	limit := flag.Int("limit", 20, "Page size (txns)")
	out := flag.String("out", "statement.pdf", "Output file (statement)")
	flag.Parse()

	money.EncodeAmountsAsNumbers()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	passphrase := os.Getenv("AIOWALLET_PASSPHRASE")
	if passphrase == "" {
		// Development default; real deployments derive this from the
		// platform keystore.
		passphrase = "aiowallet-local"
	}

	creds := credentials.NewFileStore(cfg.CredentialsPath, passphrase)
	gw := gateway.New(cfg, creds)
	st := store.New(gw, creds)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()

	if *cmd != "login" {
		st.Auth.Restore()
	}

	switch *cmd {
	case "login":
		if *email == "" || *password == "" {
			fatal(fmt.Errorf("--email and --password required"))
		}
		if !format.ValidEmail(*email) {
			fatal(fmt.Errorf("invalid email address"))
		}
		session, err := st.Auth.Login(ctx, *email, *password)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Logged in as %s (%s)\n", session.DisplayName, format.MaskID(session.UserID))

	case "logout":
		st.Logout()
		fmt.Println("Logged out")

	case "whoami":
		session := requireSession(st)
		fmt.Printf("%s (%s)\n", session.DisplayName, session.UserID)

	case "balance":
		session := requireSession(st)
		if err := st.Wallet.RefreshBalance(ctx, session.UserID); err != nil {
			fatal(err)
		}
		ws := st.Wallet.State()
		fmt.Printf("Balance: %s\n", money.Format(ws.Balance, ws.Currency))

	case "send":
		requireSession(st)
		amount := parseAmount(*amountFlag)
		if *to == "" {
			fatal(fmt.Errorf("--to required"))
		}
		rec, err := st.SendMoney(ctx, *to, amount, *desc)
		if err != nil {
			fatal(err)
		}
		ws := st.Wallet.State()
		fmt.Printf("Sent %s (%s). New balance: %s\n",
			money.Format(rec.Amount, ws.Currency), format.MaskID(rec.ID), money.Format(ws.Balance, ws.Currency))

	case "topup":
		requireSession(st)
		amount := parseAmount(*amountFlag)
		rec, err := st.TopUp(ctx, amount, *method)
		if err != nil {
			fatal(err)
		}
		ws := st.Wallet.State()
		fmt.Printf("Topped up %s. New balance: %s\n",
			money.Format(rec.Amount, ws.Currency), money.Format(ws.Balance, ws.Currency))

	case "txns":
		requireSession(st)
		if err := st.Transactions.FetchPage(ctx, *page, *limit); err != nil {
			fatal(err)
		}
		ts := st.Transactions.State()
		ws := st.Wallet.State()
		for _, rec := range ts.Items {
			fmt.Printf("%-20s %-8s %12s  %s\n",
				format.Date(rec.CreatedAt), rec.Type, money.Format(rec.Amount, ws.Currency), rec.Description)
		}
		if ts.HasMore {
			fmt.Printf("(more available: --page %d)\n", ts.CurrentPage+1)
		}

	case "statement":
		session := requireSession(st)
		if err := st.Refresh(ctx, session.UserID, *limit); err != nil {
			fatal(err)
		}
		ws := st.Wallet.State()
		ts := st.Transactions.State()

		f, err := os.Create(*out)
		if err != nil {
			fatal(err)
		}
		defer f.Close()

		err = reports.WritePDF(f, reports.Statement{
			UserID:      session.UserID,
			DisplayName: session.DisplayName,
			Currency:    ws.Currency,
			Balance:     ws.Balance,
			Items:       ts.Items,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Statement written to %s\n", *out)

	default:
		fatal(fmt.Errorf("unknown command %q", *cmd))
	}
}

func requireSession(st *store.Store) auth.Session {
	session, ok := st.Auth.Current()
	if !ok {
		fatal(auth.ErrNoSession)
	}
	return session
}

func parseAmount(raw string) decimal.Decimal {
	if raw == "" {
		fatal(fmt.Errorf("--amount required"))
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fatal(fmt.Errorf("%w: %q", money.ErrInvalidAmount, raw))
	}
	return amount
}

func fatal(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}
