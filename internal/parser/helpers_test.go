package parser

import "github.com/insightdelivered/ledger-extractor/internal/models"

// tok builds a token on the synthetic page grid used across these tests.
func tok(text, font string, x0, y0, width float64) models.Token {
	return models.Token{Text: text, Font: font, X0: x0, X1: x0 + width, Y0: y0, Y1: y0 + 8}
}

func arial(text string, x0, y0, width float64) models.Token {
	return tok(text, "Arial", x0, y0, width)
}

func arialBold(text string, x0, y0, width float64) models.Token {
	return tok(text, "Arial,Bold", x0, y0, width)
}

// transactionHeader lays out the transaction table header on one line.
func transactionHeader(y float64) []models.Token {
	return []models.Token{
		arial("Account", 40, y, 38),
		arial("Type", 85, y, 22),
		arial("Seq", 112, y, 18),
		arial("Document #", 136, y, 52),
		arial("Deposit #", 196, y, 44),
		arial("Order Code", 248, y, 50),
		arial("Description", 306, y, 52),
		arial("Date", 368, y, 24),
		arial("Budget", 400, y, 34),
		arial("Actual", 444, y, 32),
		arial("Encumbrance", 486, y, 58),
	}
}

// transactionDetail lays out one detail row under the transaction header.
func transactionDetail(y float64, acct, doc, descr, date, actual string) []models.Token {
	return []models.Token{
		arial(acct, 40, y, 30),
		arial("INV", 85, y, 20),
		arial(doc, 136, y, 40),
		arial(descr, 306, y, 50),
		arial(date, 368, y, 50),
		arial(actual, 444, y, 30),
	}
}

// transactionSummary lays out the bold summary row for an account group.
func transactionSummary(y float64, acct, descr string) []models.Token {
	return []models.Token{
		arialBold(acct, 40, y, 30),
		arialBold(descr, 306, y, 60),
	}
}

func netTotalsRow(y float64) []models.Token {
	return []models.Token{
		arialBold("Net Totals", 40, y, 50),
		arialBold("1,234.50", 444, y, 40),
	}
}

func footer(y float64) models.Token {
	return arial("15-JAN-2024 03:22 PM", 400, y, 100)
}

func banner(text string, y float64) models.Token {
	return arial(text, 200, y, 160)
}

// transactionPage assembles a full synthetic transaction page from row
// token groups placed between header and footer.
func transactionPage(number int, rows ...[]models.Token) models.Page {
	tokens := []models.Token{
		banner("Detail Transaction Activity", 20),
		arial("FY 24 Period 6", 40, 30, 70),
	}
	tokens = append(tokens, transactionHeader(100)...)
	for _, r := range rows {
		tokens = append(tokens, r...)
	}
	tokens = append(tokens, footer(700))
	return models.Page{Number: number, Tokens: tokens}
}
