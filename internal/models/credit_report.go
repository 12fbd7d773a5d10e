package models

// Ownership type values for a credit account.
const (
	OwnershipIndividual = "Individual"
	OwnershipGuarantor  = "Guarantor"
	OwnershipJoint      = "Joint"
)

// Account status values reported by the credit bureau.
const (
	StatusActive     = "Active"
	StatusClosed     = "Closed"
	StatusWrittenOff = "Written Off"
	StatusSettled    = "Settled"
	StatusDoubtful   = "Doubtful"
)

// CreditAccount represents one credit account from a CIBIL report.
// PaymentHistory is ordered most-recent-first, nominally 36 monthly DPD codes.
type CreditAccount struct {
	AccountType      string   `json:"account_type"`
	OwnershipType    string   `json:"ownership_type"`
	Status           string   `json:"status"`
	SanctionedAmount float64  `json:"sanctioned_amount"`
	CurrentBalance   float64  `json:"current_balance"`
	OverdueAmount    float64  `json:"overdue_amount"`
	EMI              float64  `json:"emi,omitempty"`
	DateOpened       string   `json:"date_opened"` // Format: DD-MM-YYYY
	DateClosed       string   `json:"date_closed,omitempty"`
	PaymentHistory   []string `json:"payment_history"`
}

// ConsumerInformation holds the report subject's identity details
type ConsumerInformation struct {
	Name         string `json:"name"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	PAN          string `json:"pan,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	Address      string `json:"address"`
}

// BureauAccountSummary holds the bureau's own account totals as printed on
// the report, distinct from the AccountSummary we derive ourselves
type BureauAccountSummary struct {
	TotalAccounts    int     `json:"total_accounts"`
	ActiveAccounts   int     `json:"active_accounts"`
	SanctionedAmount float64 `json:"sanctioned_amount"`
	CurrentBalance   float64 `json:"current_balance"`
	OverdueAmount    float64 `json:"overdue_amount"`
	WrittenOffAmount float64 `json:"written_off_amount"`
}

// EnquirySummary holds credit enquiry counts from the report
type EnquirySummary struct {
	TotalEnquiries        int    `json:"total_enquiries"`
	Last30Days            int    `json:"last_30_days"`
	Last12Months          int    `json:"last_12_months"`
	Last24Months          int    `json:"last_24_months"`
	MostRecentEnquiryDate string `json:"most_recent_enquiry_date"`
}

// CreditReport is the structured result of analyzing a CIBIL report PDF
type CreditReport struct {
	CreditScore         int                  `json:"credit_score"`
	ConsumerInformation ConsumerInformation  `json:"consumer_information"`
	AccountSummary      BureauAccountSummary `json:"account_summary"`
	EnquirySummary      EnquirySummary       `json:"enquiry_summary"`
	Accounts            []CreditAccount      `json:"accounts"`
}
