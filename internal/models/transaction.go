package models

// Transaction type values.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// CategoryUncategorized is the category assigned to transactions the
// extraction step could not classify.
const CategoryUncategorized = "Uncategorized"

// Transaction represents one statement transaction extracted from a document
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // Format: YYYY-MM-DD
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
}

// StatementSummary represents totals for a statement period
type StatementSummary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	NetSavings    float64 `json:"net_savings"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
}

// StatementAnalysis is the structured result of analyzing a bank statement
type StatementAnalysis struct {
	Transactions []Transaction    `json:"transactions"`
	Summary      StatementSummary `json:"summary"`
}
