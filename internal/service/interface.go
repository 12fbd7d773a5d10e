package service

import (
	"context"

	"github.com/finsight/analyzer/internal/models"
)

// Store is the persistence surface the service depends on
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	SaveCreditReport(userID int64, report *models.CreditReport) error
	GetCreditReport(userID int64) (*models.CreditReport, error)
	AddTransactions(userID int64, transactions []models.Transaction) error
	GetTransactions(userID int64) ([]models.Transaction, error)
	UpdateTransactionCategory(userID int64, transactionID, category string) error
	ClearUserData(userID int64) error
}

// Extractor is the document extraction service boundary
type Extractor interface {
	AnalyzeCreditReport(ctx context.Context, pdf []byte) (*models.CreditReport, error)
	AnalyzeStatement(ctx context.Context, pdf []byte) (*models.StatementAnalysis, error)
	CategorizeTransaction(ctx context.Context, description string, amount float64) (string, error)
}
