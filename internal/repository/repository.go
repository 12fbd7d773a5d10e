package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/finsight/analyzer/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO finsight.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM finsight.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by ID
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM finsight.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// SaveCreditReport stores the user's latest credit report, replacing any
// previous one. The report is stored as a JSONB document.
func (r *Repository) SaveCreditReport(userID int64, report *models.CreditReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	query := `
		INSERT INTO finsight.credit_reports (user_id, report, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET report = EXCLUDED.report, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Exec(query, userID, payload); err != nil {
		return fmt.Errorf("failed to save credit report: %w", err)
	}
	return nil
}

// GetCreditReport retrieves the user's latest credit report
func (r *Repository) GetCreditReport(userID int64) (*models.CreditReport, error) {
	var payload []byte
	query := `SELECT report FROM finsight.credit_reports WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("credit report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit report: %w", err)
	}

	report := &models.CreditReport{}
	if err := json.Unmarshal(payload, report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}
	return report, nil
}

// ListCreditReports returns every stored report keyed by user ID. Used by
// the reminder scheduler.
func (r *Repository) ListCreditReports() (map[int64]*models.CreditReport, error) {
	rows, err := r.db.Query(`SELECT user_id, report FROM finsight.credit_reports`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit reports: %w", err)
	}
	defer rows.Close()

	reports := make(map[int64]*models.CreditReport)
	for rows.Next() {
		var userID int64
		var payload []byte
		if err := rows.Scan(&userID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan credit report: %w", err)
		}
		report := &models.CreditReport{}
		if err := json.Unmarshal(payload, report); err != nil {
			return nil, fmt.Errorf("failed to decode stored report for user %d: %w", userID, err)
		}
		reports[userID] = report
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credit reports: %w", err)
	}
	return reports, nil
}

// AddTransactions inserts a batch of transactions for the user. Duplicate
// transaction IDs from re-uploaded statements are skipped.
func (r *Repository) AddTransactions(userID int64, transactions []models.Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO finsight.transactions (user_id, transaction_id, date, description, amount, type, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, transaction_id) DO NOTHING`
	for _, t := range transactions {
		if _, err := tx.Exec(query, userID, t.ID, t.Date, t.Description, t.Amount, t.Type, t.Category); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// GetTransactions returns the user's transactions, most recent first
func (r *Repository) GetTransactions(userID int64) ([]models.Transaction, error) {
	query := `
		SELECT transaction_id, date, description, amount, type, category
		FROM finsight.transactions
		WHERE user_id = $1
		ORDER BY date DESC, transaction_id`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Amount, &t.Type, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// UpdateTransactionCategory sets the category of one transaction
func (r *Repository) UpdateTransactionCategory(userID int64, transactionID, category string) error {
	query := `
		UPDATE finsight.transactions
		SET category = $3, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND transaction_id = $2`
	result, err := r.db.Exec(query, userID, transactionID, category)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

// ClearUserData removes the user's transactions and credit report
func (r *Repository) ClearUserData(userID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM finsight.transactions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM finsight.credit_reports WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete credit report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
