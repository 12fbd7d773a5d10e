package models

// Rating is a qualitative payment-behavior rating
type Rating string

// Rating values. NoData is only produced when there are no payments to rate.
const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
	RatingNoData    Rating = "No Data"
)

// DpdTally counts payment-history entries per delinquency bucket over a
// trailing window. Entries with no data are excluded from every field, so
// Total is always the sum of the five buckets.
type DpdTally struct {
	OnTime     int `json:"on_time"`
	Days1to30  int `json:"days_1_30"`
	Days31to60 int `json:"days_31_60"`
	Days61to90 int `json:"days_61_90"`
	Days90Plus int `json:"days_90_plus"`
	Total      int `json:"total"`
}

// AccountSummary is the aggregate we derive over all accounts in a report
type AccountSummary struct {
	TotalAccounts     int     `json:"total_accounts"`
	ActiveAccounts    int     `json:"active_accounts"`
	ClosedAccounts    int     `json:"closed_accounts"`
	WrittenOff        int     `json:"written_off"`
	Doubtful          int     `json:"doubtful"`
	Settled           int     `json:"settled"`
	TotalSanctioned   float64 `json:"total_sanctioned"`
	TotalOutstanding  float64 `json:"total_outstanding"`
	TotalEMI          float64 `json:"total_emi"` // active accounts only
	CreditUtilization float64 `json:"credit_utilization"`
}

// BehaviorRating is the result of rating a DPD tally
type BehaviorRating struct {
	Rating         Rating `json:"rating"`
	Summary        string `json:"summary"`
	OnTimePayments int    `json:"on_time_payments"`
	LatePayments   int    `json:"late_payments"`
	TotalPayments  int    `json:"total_payments"`
}

// TrendPoint is one month of on-time/late counts across active accounts
type TrendPoint struct {
	Month  string `json:"month"` // Format: Jan 06
	OnTime int    `json:"on_time"`
	Late   int    `json:"late"`
}

// BehaviorAnalysis bundles the rating with its monthly trend for a window
type BehaviorAnalysis struct {
	BehaviorRating
	PaymentTrend []TrendPoint `json:"payment_trend"`
}
