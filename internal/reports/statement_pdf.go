package reports

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/money"
)

func (h *Handler) StatementPDF(c *fiber.Ctx) error {
	acct, err := h.loadAccount(c)
	if err != nil {
		return err
	}
	from, to, err := statementPeriod(c)
	if err != nil {
		return err
	}
	data, err := h.statementData(c, acct, from, to)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(235, 235, 235)
	pdf.Text(25, 140, "FINBOOK")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+from+" to "+to)
	pdf.Ln(5)
	pdf.Cell(0, 6, acct.BankName+" ("+acct.AccountType+") "+maskID(acct.ID))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{62, 62, 62}
	pdf.CellFormat(sumW[0], 10, "Credits ("+data.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Debits ("+data.Currency+")", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance ("+data.Currency+")", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.Format(data.TotalCredits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.Format(data.TotalDebits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.Format(data.Balance), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)

	colW := []float64{22, 26, 92, 30, 20}
	writeHeader := func() {
		pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "DESCRIPTION", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[4], 8, "ID", "1", 1, "C", true, 0, "")
	}
	writeHeader()

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)

	maxRows := 200
	for i, it := range data.Items {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "…truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}

		if pdf.GetY() > 270 {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetFillColor(245, 245, 245)
			writeHeader()
			pdf.SetFont("Helvetica", "", 9)
		}

		desc := ""
		if it.Description != nil {
			desc = *it.Description
		}
		if desc == "" && it.Category != nil {
			desc = *it.Category
		}

		pdf.CellFormat(colW[0], 8, strings.ToUpper(it.TxnType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, it.Date, "1", 0, "C", false, 0, "")

		x := pdf.GetX()
		y := pdf.GetY()

		pdf.MultiCell(colW[2], 8, trimTo(desc, 90), "1", "L", false)
		usedH := pdf.GetY() - y
		pdf.SetXY(x+colW[2], y)

		pdf.CellFormat(colW[3], usedH, signedAmount(it.Amount, it.TxnType), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], usedH, shortID(it.ID), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by FINBOOK • "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed: "+err.Error())
	}

	filename := "finbook-statement-" + from + "-to-" + to + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func signedAmount(amount decimal.Decimal, txnType string) string {
	if txnType == "debit" && amount.Sign() > 0 {
		return "-" + money.Format(amount)
	}
	return money.Format(amount)
}

func shortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func maskID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "…" + id[len(id)-4:]
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
