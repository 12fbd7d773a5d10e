// Package schema is the validation boundary between the generative-AI
// extraction service and the rest of the application. The service returns
// loosely-typed JSON; everything crossing into the domain model goes through
// a strict parse here so malformed extractions fail loudly instead of
// leaking zero values into the analysis.
package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/finsight/analyzer/internal/models"
)

// ValidationError describes a single field that failed validation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// Raw wire shapes, matching the camelCase schema the extraction prompt
// requests. Pointers distinguish absent numeric fields (defaulted to 0)
// from present ones.
type rawAccount struct {
	AccountType      string   `json:"accountType"`
	OwnershipType    string   `json:"ownershipType"`
	Status           string   `json:"status"`
	SanctionedAmount *float64 `json:"sanctionedAmount"`
	CurrentBalance   *float64 `json:"currentBalance"`
	OverdueAmount    *float64 `json:"overdueAmount"`
	EMI              *float64 `json:"emi"`
	DateOpened       string   `json:"dateOpened"`
	DateClosed       string   `json:"dateClosed"`
	PaymentHistory   []string `json:"paymentHistory"`
}

type rawCreditReport struct {
	CreditScore         int `json:"creditScore"`
	ConsumerInformation struct {
		Name         string `json:"name"`
		DateOfBirth  string `json:"dateOfBirth"`
		Gender       string `json:"gender"`
		PAN          string `json:"pan"`
		MobileNumber string `json:"mobileNumber"`
		Address      string `json:"address"`
	} `json:"consumerInformation"`
	AccountSummary struct {
		TotalAccounts    int      `json:"totalAccounts"`
		ActiveAccounts   int      `json:"activeAccounts"`
		SanctionedAmount *float64 `json:"highCreditOrSanctionedAmount"`
		CurrentBalance   *float64 `json:"currentBalance"`
		OverdueAmount    *float64 `json:"overdueAmount"`
		WrittenOffAmount *float64 `json:"writtenOffAmount"`
	} `json:"accountSummary"`
	EnquirySummary struct {
		TotalEnquiries        int    `json:"totalEnquiries"`
		Last30Days            int    `json:"last30Days"`
		Last12Months          int    `json:"last12Months"`
		Last24Months          int    `json:"last24Months"`
		MostRecentEnquiryDate string `json:"mostRecentEnquiryDate"`
	} `json:"enquirySummary"`
	DetailedAccounts []rawAccount `json:"detailedAccounts"`
}

type rawTransaction struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
}

type rawStatement struct {
	Transactions []rawTransaction `json:"transactions"`
	Summary      struct {
		TotalIncome   *float64 `json:"totalIncome"`
		TotalExpenses *float64 `json:"totalExpenses"`
		NetSavings    *float64 `json:"netSavings"`
		StartDate     string   `json:"startDate"`
		EndDate       string   `json:"endDate"`
	} `json:"summary"`
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func validMoney(field string, v *float64) error {
	if v != nil && *v < 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("negative amount %v", *v)}
	}
	return nil
}

func validDate(field, value, layout string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(layout, value); err != nil {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("malformed date %q", value)}
	}
	return nil
}

// ParseCreditReport strictly deserializes the extraction service's credit
// report JSON. Absent numeric fields default to 0; present but malformed
// values (negative amounts, unknown ownership, bad dates, out-of-range
// score) return a *ValidationError.
func ParseCreditReport(data []byte) (*models.CreditReport, error) {
	var raw rawCreditReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode credit report: %w", err)
	}

	if raw.CreditScore < 300 || raw.CreditScore > 900 {
		return nil, &ValidationError{Field: "creditScore", Reason: fmt.Sprintf("score %d outside 300-900", raw.CreditScore)}
	}

	for _, check := range []struct {
		field string
		v     *float64
	}{
		{"accountSummary.highCreditOrSanctionedAmount", raw.AccountSummary.SanctionedAmount},
		{"accountSummary.currentBalance", raw.AccountSummary.CurrentBalance},
		{"accountSummary.overdueAmount", raw.AccountSummary.OverdueAmount},
		{"accountSummary.writtenOffAmount", raw.AccountSummary.WrittenOffAmount},
	} {
		if err := validMoney(check.field, check.v); err != nil {
			return nil, err
		}
	}

	report := &models.CreditReport{
		CreditScore: raw.CreditScore,
		ConsumerInformation: models.ConsumerInformation{
			Name:         raw.ConsumerInformation.Name,
			DateOfBirth:  raw.ConsumerInformation.DateOfBirth,
			Gender:       raw.ConsumerInformation.Gender,
			PAN:          raw.ConsumerInformation.PAN,
			MobileNumber: raw.ConsumerInformation.MobileNumber,
			Address:      raw.ConsumerInformation.Address,
		},
		AccountSummary: models.BureauAccountSummary{
			TotalAccounts:    raw.AccountSummary.TotalAccounts,
			ActiveAccounts:   raw.AccountSummary.ActiveAccounts,
			SanctionedAmount: deref(raw.AccountSummary.SanctionedAmount),
			CurrentBalance:   deref(raw.AccountSummary.CurrentBalance),
			OverdueAmount:    deref(raw.AccountSummary.OverdueAmount),
			WrittenOffAmount: deref(raw.AccountSummary.WrittenOffAmount),
		},
		EnquirySummary: models.EnquirySummary{
			TotalEnquiries:        raw.EnquirySummary.TotalEnquiries,
			Last30Days:            raw.EnquirySummary.Last30Days,
			Last12Months:          raw.EnquirySummary.Last12Months,
			Last24Months:          raw.EnquirySummary.Last24Months,
			MostRecentEnquiryDate: raw.EnquirySummary.MostRecentEnquiryDate,
		},
		Accounts: make([]models.CreditAccount, 0, len(raw.DetailedAccounts)),
	}

	for i, acc := range raw.DetailedAccounts {
		parsed, err := parseAccount(i, acc)
		if err != nil {
			return nil, err
		}
		report.Accounts = append(report.Accounts, parsed)
	}

	return report, nil
}

func parseAccount(i int, acc rawAccount) (models.CreditAccount, error) {
	field := func(name string) string {
		return fmt.Sprintf("detailedAccounts[%d].%s", i, name)
	}

	if acc.Status == "" {
		return models.CreditAccount{}, &ValidationError{Field: field("status"), Reason: "empty status"}
	}
	switch acc.OwnershipType {
	case models.OwnershipIndividual, models.OwnershipGuarantor, models.OwnershipJoint:
	default:
		return models.CreditAccount{}, &ValidationError{
			Field:  field("ownershipType"),
			Reason: fmt.Sprintf("unknown ownership %q", acc.OwnershipType),
		}
	}

	for _, check := range []struct {
		name string
		v    *float64
	}{
		{"sanctionedAmount", acc.SanctionedAmount},
		{"currentBalance", acc.CurrentBalance},
		{"overdueAmount", acc.OverdueAmount},
		{"emi", acc.EMI},
	} {
		if err := validMoney(field(check.name), check.v); err != nil {
			return models.CreditAccount{}, err
		}
	}

	if err := validDate(field("dateOpened"), acc.DateOpened, "02-01-2006"); err != nil {
		return models.CreditAccount{}, err
	}
	if err := validDate(field("dateClosed"), acc.DateClosed, "02-01-2006"); err != nil {
		return models.CreditAccount{}, err
	}

	// DPD codes are intentionally not validated here: the classifier owns
	// their semantics and excludes anything it cannot parse.
	return models.CreditAccount{
		AccountType:      acc.AccountType,
		OwnershipType:    acc.OwnershipType,
		Status:           acc.Status,
		SanctionedAmount: deref(acc.SanctionedAmount),
		CurrentBalance:   deref(acc.CurrentBalance),
		OverdueAmount:    deref(acc.OverdueAmount),
		EMI:              deref(acc.EMI),
		DateOpened:       acc.DateOpened,
		DateClosed:       acc.DateClosed,
		PaymentHistory:   acc.PaymentHistory,
	}, nil
}

// ParseStatement strictly deserializes the extraction service's bank
// statement JSON.
func ParseStatement(data []byte) (*models.StatementAnalysis, error) {
	var raw rawStatement
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode statement: %w", err)
	}

	analysis := &models.StatementAnalysis{
		Transactions: make([]models.Transaction, 0, len(raw.Transactions)),
		Summary: models.StatementSummary{
			TotalIncome:   deref(raw.Summary.TotalIncome),
			TotalExpenses: deref(raw.Summary.TotalExpenses),
			NetSavings:    deref(raw.Summary.NetSavings),
			StartDate:     raw.Summary.StartDate,
			EndDate:       raw.Summary.EndDate,
		},
	}

	for i, tx := range raw.Transactions {
		field := func(name string) string {
			return fmt.Sprintf("transactions[%d].%s", i, name)
		}
		if tx.Type != models.TransactionTypeIncome && tx.Type != models.TransactionTypeExpense {
			return nil, &ValidationError{Field: field("type"), Reason: fmt.Sprintf("unknown type %q", tx.Type)}
		}
		if err := validDate(field("date"), tx.Date, "2006-01-02"); err != nil {
			return nil, err
		}
		category := tx.Category
		if category == "" {
			category = models.CategoryUncategorized
		}
		analysis.Transactions = append(analysis.Transactions, models.Transaction{
			ID:          tx.ID,
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      deref(tx.Amount),
			Type:        tx.Type,
			Category:    category,
		})
	}

	return analysis, nil
}
