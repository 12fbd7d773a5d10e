// Package stats provides derived views over a user's transaction list for
// dashboard cards and spending charts. Everything here is recomputed from
// scratch on each request.
package stats

import (
	"sort"
	"time"

	"github.com/finsight/analyzer/internal/models"
)

// Totals holds income/expense/net sums over a transaction list
type Totals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// CategorySpend is the expense total for one category
type CategorySpend struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MonthlySpend is the expense total for one calendar month
type MonthlySpend struct {
	Month string  `json:"month"` // Format: Jan 2006
	Total float64 `json:"total"`
}

// Sum computes income, expense and net totals.
func Sum(transactions []models.Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypeIncome {
			t.Income += tx.Amount
		} else {
			t.Expenses += tx.Amount
		}
	}
	t.Net = t.Income - t.Expenses
	return t
}

// ByCategory groups expense amounts per category, largest first.
// Transactions without a category fall under Uncategorized.
func ByCategory(transactions []models.Transaction) []CategorySpend {
	totals := make(map[string]float64)
	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		category := tx.Category
		if category == "" {
			category = models.CategoryUncategorized
		}
		totals[category] += tx.Amount
	}

	spend := make([]CategorySpend, 0, len(totals))
	for category, total := range totals {
		spend = append(spend, CategorySpend{Category: category, Total: total})
	}
	sort.Slice(spend, func(i, j int) bool {
		if spend[i].Total != spend[j].Total {
			return spend[i].Total > spend[j].Total
		}
		return spend[i].Category < spend[j].Category
	})
	return spend
}

// ByMonth groups expense amounts per calendar month, oldest first.
// Transactions with unparseable dates are skipped.
func ByMonth(transactions []models.Transaction) []MonthlySpend {
	type monthTotal struct {
		at    time.Time
		total float64
	}
	totals := make(map[string]*monthTotal)
	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		date, err := time.Parse("2006-01-02", tx.Date)
		if err != nil {
			continue
		}
		month := date.Format("Jan 2006")
		if entry, ok := totals[month]; ok {
			entry.total += tx.Amount
		} else {
			totals[month] = &monthTotal{at: date, total: tx.Amount}
		}
	}

	spend := make([]MonthlySpend, 0, len(totals))
	for month, entry := range totals {
		spend = append(spend, MonthlySpend{Month: month, Total: entry.total})
	}
	sort.Slice(spend, func(i, j int) bool {
		ti, _ := time.Parse("Jan 2006", spend[i].Month)
		tj, _ := time.Parse("Jan 2006", spend[j].Month)
		return ti.Before(tj)
	})
	return spend
}
