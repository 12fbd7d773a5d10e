package cibil

import "github.com/finsight/analyzer/internal/models"

const summaryNoData = "Not enough payment data available for this period to generate a detailed analysis."

const (
	summaryExcellent = "Payment history is pristine with virtually all payments made on time. This indicates outstanding financial discipline and reliability as a borrower."
	summaryGood      = "Consistently makes payments on time with very few delays. This demonstrates strong credit management and financial responsibility."
	summaryFair      = "There are some instances of late payments. While most payments are on time, the occasional delays could be a point of concern for lenders."
	summaryPoor      = "A significant number of payments have been delayed, indicating potential issues with credit management. This could negatively impact creditworthiness."
)

// Rate converts a DPD tally into a qualitative rating with a canned summary.
// Thresholds on the on-time percentage are inclusive on the lower bound and
// partition [0,100]: >=99 Excellent, >=95 Good, >=85 Fair, below Poor.
// An empty tally rates Fair with a no-data message.
func Rate(tally models.DpdTally) models.BehaviorRating {
	if tally.Total == 0 {
		return models.BehaviorRating{
			Rating:  models.RatingFair,
			Summary: summaryNoData,
		}
	}

	rating := models.BehaviorRating{
		OnTimePayments: tally.OnTime,
		LatePayments:   tally.Total - tally.OnTime,
		TotalPayments:  tally.Total,
	}

	pct := float64(tally.OnTime) / float64(tally.Total) * 100
	switch {
	case pct >= 99:
		rating.Rating = models.RatingExcellent
		rating.Summary = summaryExcellent
	case pct >= 95:
		rating.Rating = models.RatingGood
		rating.Summary = summaryGood
	case pct >= 85:
		rating.Rating = models.RatingFair
		rating.Summary = summaryFair
	default:
		rating.Rating = models.RatingPoor
		rating.Summary = summaryPoor
	}

	return rating
}
