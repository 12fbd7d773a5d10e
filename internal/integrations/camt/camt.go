// Package camt parses ISO 20022 camt.053 bank statement XML into the
// application's transaction model. XML statements are handled locally and
// never sent to the extraction service.
package camt

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/finsight/analyzer/internal/models"
)

// Parse reads a camt.053 document and returns its entries as transactions.
// CRDT entries become income, DBIT entries expenses. Entries without a
// booking date or amount are rejected.
func Parse(data []byte) (*models.StatementAnalysis, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse camt.053 XML: %w", err)
	}

	entries := doc.FindElements("//BkToCstmrStmt/Stmt/Ntry")
	if len(entries) == 0 {
		return nil, fmt.Errorf("no statement entries found in camt.053 document")
	}

	analysis := &models.StatementAnalysis{
		Transactions: make([]models.Transaction, 0, len(entries)),
	}

	for i, entry := range entries {
		tx, err := parseEntry(i, entry)
		if err != nil {
			return nil, err
		}
		analysis.Transactions = append(analysis.Transactions, tx)

		if tx.Type == models.TransactionTypeIncome {
			analysis.Summary.TotalIncome += tx.Amount
		} else {
			analysis.Summary.TotalExpenses += tx.Amount
		}
		if analysis.Summary.StartDate == "" || tx.Date < analysis.Summary.StartDate {
			analysis.Summary.StartDate = tx.Date
		}
		if tx.Date > analysis.Summary.EndDate {
			analysis.Summary.EndDate = tx.Date
		}
	}
	analysis.Summary.NetSavings = analysis.Summary.TotalIncome - analysis.Summary.TotalExpenses

	return analysis, nil
}

func parseEntry(i int, entry *etree.Element) (models.Transaction, error) {
	amtElement := entry.FindElement("./Amt")
	if amtElement == nil {
		return models.Transaction{}, fmt.Errorf("entry %d: missing Amt element", i)
	}
	amount, err := strconv.ParseFloat(amtElement.Text(), 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("entry %d: invalid amount %q: %w", i, amtElement.Text(), err)
	}

	dateElement := entry.FindElement("./BookgDt/Dt")
	if dateElement == nil {
		return models.Transaction{}, fmt.Errorf("entry %d: missing booking date", i)
	}

	txType := models.TransactionTypeExpense
	if ind := entry.FindElement("./CdtDbtInd"); ind != nil && ind.Text() == "CRDT" {
		txType = models.TransactionTypeIncome
	}

	id := ""
	if ref := entry.FindElement("./AcctSvcrRef"); ref != nil {
		id = ref.Text()
	}
	if id == "" {
		id = fmt.Sprintf("camt-%d", i)
	}

	description := ""
	if ustrd := entry.FindElement("./NtryDtls/TxDtls/RmtInf/Ustrd"); ustrd != nil {
		description = ustrd.Text()
	} else if info := entry.FindElement("./AddtlNtryInf"); info != nil {
		description = info.Text()
	}

	return models.Transaction{
		ID:          id,
		Date:        dateElement.Text(),
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    models.CategoryUncategorized,
	}, nil
}
