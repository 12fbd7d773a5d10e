package cibil

import (
	"fmt"
	"time"

	"github.com/finsight/analyzer/internal/models"
)

// Windows lists the selectable trailing-window lengths in months.
var Windows = []int{3, 6, 9, 12, 18, 24}

// ValidWindow reports whether months is a selectable window length.
func ValidWindow(months int) bool {
	for _, w := range Windows {
		if w == months {
			return true
		}
	}
	return false
}

// AnalyzeWindow tallies DPD buckets over the first windowMonths entries of
// every active account's payment history. Histories are most-recent-first;
// a history shorter than the window is consumed as-is, no padding. Only
// accounts with status exactly "Active" qualify. Excluded entries increment
// neither a bucket nor Total.
func AnalyzeWindow(accounts []models.CreditAccount, windowMonths int) (models.DpdTally, error) {
	var tally models.DpdTally
	if !ValidWindow(windowMonths) {
		return tally, fmt.Errorf("invalid window %d: must be one of %v", windowMonths, Windows)
	}

	for _, acc := range accounts {
		if acc.Status != models.StatusActive {
			continue
		}
		history := acc.PaymentHistory
		if len(history) > windowMonths {
			history = history[:windowMonths]
		}
		for _, code := range history {
			switch Classify(code) {
			case BucketOnTime:
				tally.OnTime++
			case BucketDays1to30:
				tally.Days1to30++
			case BucketDays31to60:
				tally.Days31to60++
			case BucketDays61to90:
				tally.Days61to90++
			case BucketDays90Plus:
				tally.Days90Plus++
			case BucketExcluded:
				continue
			}
			tally.Total++
		}
	}

	return tally, nil
}

// FilterOwnership returns the accounts matching the given ownership type.
// An empty ownership matches everything.
func FilterOwnership(accounts []models.CreditAccount, ownership string) []models.CreditAccount {
	if ownership == "" {
		return accounts
	}
	filtered := make([]models.CreditAccount, 0, len(accounts))
	for _, acc := range accounts {
		if acc.OwnershipType == ownership {
			filtered = append(filtered, acc)
		}
	}
	return filtered
}

// PaymentTrend builds per-month on-time/late counts across active accounts
// for the trailing window ending at ref. Index i of each payment history is
// i months before ref; points are returned oldest-first for charting.
func PaymentTrend(accounts []models.CreditAccount, windowMonths int, ref time.Time) []models.TrendPoint {
	points := make([]models.TrendPoint, windowMonths)
	for i := 0; i < windowMonths; i++ {
		points[windowMonths-1-i] = models.TrendPoint{
			Month: ref.AddDate(0, -i, 0).Format("Jan 06"),
		}
	}

	for _, acc := range accounts {
		if acc.Status != models.StatusActive {
			continue
		}
		for i, code := range acc.PaymentHistory {
			if i >= windowMonths {
				break
			}
			p := &points[windowMonths-1-i]
			switch Classify(code) {
			case BucketOnTime:
				p.OnTime++
			case BucketExcluded:
			default:
				p.Late++
			}
		}
	}

	return points
}
