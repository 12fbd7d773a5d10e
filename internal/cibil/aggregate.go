package cibil

import (
	"strings"

	"github.com/finsight/analyzer/internal/models"
)

// Aggregate reduces a report's account list into summary totals. Status
// bucketing is a case-insensitive substring match checked in priority order
// (written off, doubtful, settled, closed, active) so each account lands in
// exactly one bucket even when the bureau prints compound statuses.
func Aggregate(accounts []models.CreditAccount) models.AccountSummary {
	summary := models.AccountSummary{TotalAccounts: len(accounts)}

	for _, acc := range accounts {
		status := strings.ToLower(acc.Status)
		switch {
		case strings.Contains(status, "written off"):
			summary.WrittenOff++
		case strings.Contains(status, "doubtful"):
			summary.Doubtful++
		case strings.Contains(status, "settled"):
			summary.Settled++
		case strings.Contains(status, "closed"):
			summary.ClosedAccounts++
		case strings.Contains(status, "active"):
			summary.ActiveAccounts++
			summary.TotalEMI += acc.EMI
		}

		summary.TotalSanctioned += acc.SanctionedAmount
		summary.TotalOutstanding += acc.CurrentBalance
	}

	if summary.TotalSanctioned > 0 {
		summary.CreditUtilization = summary.TotalOutstanding / summary.TotalSanctioned * 100
	}

	return summary
}
