// Package reports renders offline exports of what the app currently
// shows. The statement PDF is built from the local transaction log; the
// balance printed on it is the server-authoritative cached value, never a
// sum computed here.
package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/dzungnguyen14/aiowallet-app/internal/format"
	"github.com/dzungnguyen14/aiowallet-app/internal/money"
	"github.com/dzungnguyen14/aiowallet-app/internal/transactions"
)

// Statement is everything the PDF needs, captured from store snapshots.
type Statement struct {
	UserID      string
	DisplayName string
	Currency    string
	Balance     decimal.Decimal
	Items       []transactions.Record
	GeneratedAt time.Time
}

// WritePDF renders the statement to w.
func WritePDF(w io.Writer, st Statement) error {
	if st.GeneratedAt.IsZero() {
		st.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(235, 235, 235)
	pdf.Text(25, 140, "AIOWALLET")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "AIO Wallet Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Generated: "+st.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(5)
	holder := st.DisplayName
	if holder == "" {
		holder = format.MaskID(st.UserID)
	}
	pdf.Cell(0, 6, "Account: "+holder)
	pdf.Ln(10)

	in, out := totals(st.Items)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{62, 62, 62}
	pdf.CellFormat(sumW[0], 10, "Money In ("+st.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Money Out ("+st.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance ("+st.Currency+")", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, in.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, out.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, st.Balance.StringFixed(2), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)

	colW := []float64{22, 34, 76, 28, 26}
	pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[2], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colW[4], 8, "STATUS", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, rec := range st.Items {
		pdf.CellFormat(colW[0], 7, string(rec.Type), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 7, rec.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 7, clip(rec.Description, 46), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 7, money.Format(signed(rec), st.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 7, string(rec.Status), "1", 1, "C", false, 0, "")
	}

	if len(st.Items) == 0 {
		pdf.CellFormat(186, 8, "No transactions", "1", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render statement: %w", err)
	}
	return nil
}

// totals sums the listed records for the period header. Display only; the
// balance column is the cached server value.
func totals(items []transactions.Record) (in, out decimal.Decimal) {
	for _, rec := range items {
		switch rec.Type {
		case transactions.TypeReceive, transactions.TypeTopUp:
			in = in.Add(rec.Amount)
		case transactions.TypeSend, transactions.TypeWithdraw:
			out = out.Add(rec.Amount)
		}
	}
	return in, out
}

func signed(rec transactions.Record) decimal.Decimal {
	switch rec.Type {
	case transactions.TypeSend, transactions.TypeWithdraw:
		return rec.Amount.Neg()
	default:
		return rec.Amount
	}
}

// clip truncates on runes so a multi-byte description is never split
// mid-character.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
