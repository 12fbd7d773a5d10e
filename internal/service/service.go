package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/finsight/analyzer/internal/cibil"
	"github.com/finsight/analyzer/internal/config"
	"github.com/finsight/analyzer/internal/integrations/camt"
	"github.com/finsight/analyzer/internal/models"
	"github.com/finsight/analyzer/internal/stats"
	"github.com/finsight/analyzer/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	ledongpdf "github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidDocument marks uploads that fail local pre-checks; the
// extraction service is never called for them.
var ErrInvalidDocument = errors.New("invalid document")

// ErrSuperseded marks an extraction whose result arrived after the user
// submitted a newer document. The stale result is discarded, not stored.
var ErrSuperseded = errors.New("analysis superseded by a newer upload")

// Service handles business logic
type Service struct {
	store     Store
	extractor Extractor
	log       *logrus.Logger
	config    *config.Config

	// generations tracks the latest document submission per user so a
	// late-arriving extraction result for an older upload is discarded.
	mu          sync.Mutex
	generations map[int64]uint64
}

// NewService initializes a new service
func NewService(store Store, extractor Extractor, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:       store,
		extractor:   extractor,
		log:         log,
		config:      cfg,
		generations: make(map[int64]uint64),
	}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

func userIDFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, fmt.Errorf("user ID not found in context")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}

// nextGeneration records a new document submission for the user and returns
// its generation token.
func (s *Service) nextGeneration(userID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userID]++
	return s.generations[userID]
}

func (s *Service) isCurrentGeneration(userID int64, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID] == gen
}

// checkPDF verifies the upload opens as a PDF with at least one page before
// anything is sent to the extraction service.
func checkPDF(data []byte) error {
	reader, err := ledongpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: not a readable PDF: %v", ErrInvalidDocument, err)
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("%w: PDF has no pages", ErrInvalidDocument)
	}
	return nil
}

// AnalyzeCreditReport runs a CIBIL report PDF through the extraction
// service and stores the validated result as the user's latest report.
func (s *Service) AnalyzeCreditReport(ctx context.Context, document []byte) (*models.CreditReport, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkPDF(document); err != nil {
		return nil, err
	}

	gen := s.nextGeneration(userID)
	report, err := s.extractor.AnalyzeCreditReport(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("credit report analysis failed: %w", err)
	}
	if !s.isCurrentGeneration(userID, gen) {
		s.log.Warnf("Discarding stale credit report result for user %d", userID)
		return nil, ErrSuperseded
	}

	stored := *report
	stored.ConsumerInformation.PAN, err = utils.EncryptPII(report.ConsumerInformation.PAN, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt PAN: %w", err)
	}
	stored.ConsumerInformation.MobileNumber, err = utils.EncryptPII(report.ConsumerInformation.MobileNumber, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt mobile number: %w", err)
	}
	if err := s.store.SaveCreditReport(userID, &stored); err != nil {
		return nil, err
	}

	s.log.Infof("Credit report stored for user %d: score=%d accounts=%d", userID, report.CreditScore, len(report.Accounts))
	return report, nil
}

// GetCreditReport returns the user's latest stored report with PII decrypted
func (s *Service) GetCreditReport(ctx context.Context) (*models.CreditReport, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.store.GetCreditReport(userID)
	if err != nil {
		return nil, err
	}

	report.ConsumerInformation.PAN, err = utils.DecryptPII(report.ConsumerInformation.PAN, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt PAN: %w", err)
	}
	report.ConsumerInformation.MobileNumber, err = utils.DecryptPII(report.ConsumerInformation.MobileNumber, s.config.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt mobile number: %w", err)
	}
	return report, nil
}

// GetAccountSummary derives summary totals over the stored report's accounts
func (s *Service) GetAccountSummary(ctx context.Context) (models.AccountSummary, error) {
	report, err := s.GetCreditReport(ctx)
	if err != nil {
		return models.AccountSummary{}, err
	}
	return cibil.Aggregate(report.Accounts), nil
}

// GetDpdTally tallies DPD buckets over the selected trailing window
func (s *Service) GetDpdTally(ctx context.Context, windowMonths int) (models.DpdTally, error) {
	report, err := s.GetCreditReport(ctx)
	if err != nil {
		return models.DpdTally{}, err
	}
	return cibil.AnalyzeWindow(report.Accounts, windowMonths)
}

// GetBehaviorAnalysis rates payment behavior over the selected window,
// optionally restricted to one ownership type.
func (s *Service) GetBehaviorAnalysis(ctx context.Context, windowMonths int, ownership string) (models.BehaviorAnalysis, error) {
	switch ownership {
	case "", models.OwnershipIndividual, models.OwnershipGuarantor, models.OwnershipJoint:
	default:
		return models.BehaviorAnalysis{}, fmt.Errorf("unknown ownership type %q", ownership)
	}

	report, err := s.GetCreditReport(ctx)
	if err != nil {
		return models.BehaviorAnalysis{}, err
	}

	accounts := cibil.FilterOwnership(report.Accounts, ownership)
	tally, err := cibil.AnalyzeWindow(accounts, windowMonths)
	if err != nil {
		return models.BehaviorAnalysis{}, err
	}

	return models.BehaviorAnalysis{
		BehaviorRating: cibil.Rate(tally),
		PaymentTrend:   cibil.PaymentTrend(accounts, windowMonths, time.Now()),
	}, nil
}

// AnalyzeStatement ingests a bank statement upload. camt.053 XML documents
// are parsed locally; PDFs go through the extraction service. Extracted
// transactions are merged into the user's set.
func (s *Service) AnalyzeStatement(ctx context.Context, document []byte) (*models.StatementAnalysis, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	gen := s.nextGeneration(userID)

	var analysis *models.StatementAnalysis
	if looksLikeXML(document) {
		analysis, err = camt.Parse(document)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	} else {
		if err := checkPDF(document); err != nil {
			return nil, err
		}
		analysis, err = s.extractor.AnalyzeStatement(ctx, document)
		if err != nil {
			return nil, fmt.Errorf("statement analysis failed: %w", err)
		}
	}

	if !s.isCurrentGeneration(userID, gen) {
		s.log.Warnf("Discarding stale statement result for user %d", userID)
		return nil, ErrSuperseded
	}

	if err := s.store.AddTransactions(userID, analysis.Transactions); err != nil {
		return nil, err
	}

	s.log.Infof("Statement stored for user %d: transactions=%d", userID, len(analysis.Transactions))
	return analysis, nil
}

func looksLikeXML(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("<"))
}

// GetTransactions returns the user's stored transactions
func (s *Service) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetTransactions(userID)
}

// SpendingStats bundles the dashboard's derived statement views
type SpendingStats struct {
	Totals     stats.Totals          `json:"totals"`
	ByCategory []stats.CategorySpend `json:"by_category"`
	ByMonth    []stats.MonthlySpend  `json:"by_month"`
}

// GetSpendingStats recomputes totals and spending breakdowns from the
// user's transactions.
func (s *Service) GetSpendingStats(ctx context.Context) (SpendingStats, error) {
	transactions, err := s.GetTransactions(ctx)
	if err != nil {
		return SpendingStats{}, err
	}
	return SpendingStats{
		Totals:     stats.Sum(transactions),
		ByCategory: stats.ByCategory(transactions),
		ByMonth:    stats.ByMonth(transactions),
	}, nil
}

// CategorizeResult reports the outcome of a bulk categorization run
type CategorizeResult struct {
	Categorized int `json:"categorized"`
	Failed      int `json:"failed"`
}

// CategorizeTransactions asks the AI for a category for every uncategorized
// transaction. Individual failures are logged and skipped; the rest of the
// batch proceeds.
func (s *Service) CategorizeTransactions(ctx context.Context) (CategorizeResult, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return CategorizeResult{}, err
	}
	transactions, err := s.store.GetTransactions(userID)
	if err != nil {
		return CategorizeResult{}, err
	}

	var result CategorizeResult
	for _, tx := range transactions {
		if tx.Category != models.CategoryUncategorized {
			continue
		}
		category, err := s.extractor.CategorizeTransaction(ctx, tx.Description, tx.Amount)
		if err != nil {
			s.log.Errorf("Failed to categorize transaction %s: %v", tx.ID, err)
			result.Failed++
			continue
		}
		if err := s.store.UpdateTransactionCategory(userID, tx.ID, category); err != nil {
			s.log.Errorf("Failed to store category for transaction %s: %v", tx.ID, err)
			result.Failed++
			continue
		}
		result.Categorized++
	}

	s.log.Infof("Categorization run for user %d: %d categorized, %d failed", userID, result.Categorized, result.Failed)
	return result, nil
}

// ClearData removes the user's transactions and stored report
func (s *Service) ClearData(ctx context.Context) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.store.ClearUserData(userID); err != nil {
		return err
	}
	s.log.Infof("Cleared data for user %d", userID)
	return nil
}
