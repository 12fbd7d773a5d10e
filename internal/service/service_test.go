package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/finsight/analyzer/internal/config"
	"github.com/finsight/analyzer/internal/models"
	"github.com/finsight/analyzer/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users        map[string]*models.User
	reports      map[int64]*models.CreditReport
	transactions map[int64][]models.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]*models.User),
		reports:      make(map[int64]*models.CreditReport),
		transactions: make(map[int64][]models.Transaction),
	}
}

func (f *fakeStore) CreateUser(user *models.User) error {
	if _, exists := f.users[user.Email]; exists {
		return fmt.Errorf("failed to create user: duplicate email")
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) FindUserByEmail(email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (f *fakeStore) SaveCreditReport(userID int64, report *models.CreditReport) error {
	f.reports[userID] = report
	return nil
}

func (f *fakeStore) GetCreditReport(userID int64) (*models.CreditReport, error) {
	report, ok := f.reports[userID]
	if !ok {
		return nil, fmt.Errorf("credit report not found")
	}
	return report, nil
}

func (f *fakeStore) AddTransactions(userID int64, transactions []models.Transaction) error {
	f.transactions[userID] = append(f.transactions[userID], transactions...)
	return nil
}

func (f *fakeStore) GetTransactions(userID int64) ([]models.Transaction, error) {
	return f.transactions[userID], nil
}

func (f *fakeStore) UpdateTransactionCategory(userID int64, transactionID, category string) error {
	for i, tx := range f.transactions[userID] {
		if tx.ID == transactionID {
			f.transactions[userID][i].Category = category
			return nil
		}
	}
	return fmt.Errorf("transaction not found")
}

func (f *fakeStore) ClearUserData(userID int64) error {
	delete(f.reports, userID)
	delete(f.transactions, userID)
	return nil
}

type fakeExtractor struct {
	report        *models.CreditReport
	statement     *models.StatementAnalysis
	categories    map[string]string
	categorizeErr error
	onExtract     func()
}

func (f *fakeExtractor) AnalyzeCreditReport(ctx context.Context, pdf []byte) (*models.CreditReport, error) {
	if f.onExtract != nil {
		f.onExtract()
	}
	if f.report == nil {
		return nil, fmt.Errorf("extraction failed")
	}
	return f.report, nil
}

func (f *fakeExtractor) AnalyzeStatement(ctx context.Context, pdf []byte) (*models.StatementAnalysis, error) {
	if f.onExtract != nil {
		f.onExtract()
	}
	if f.statement == nil {
		return nil, fmt.Errorf("extraction failed")
	}
	return f.statement, nil
}

func (f *fakeExtractor) CategorizeTransaction(ctx context.Context, description string, amount float64) (string, error) {
	if f.categorizeErr != nil {
		return "", f.categorizeErr
	}
	return f.categories[description], nil
}

func newTestService(store Store, extractor Extractor) *Service {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(store, extractor, log, &config.Config{
		JWTSecret:     "test-secret",
		EncryptionKey: "0123456789abcdef",
	})
}

func authedContext(userID string) context.Context {
	return context.WithValue(context.Background(), "userID", userID)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeExtractor{})

	user, err := svc.Register("asha", "asha@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	token, err := svc.Login("asha@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("asha@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")
}

func TestAnalyzeCreditReportRejectsNonPDF(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeExtractor{})

	_, err := svc.AnalyzeCreditReport(authedContext("1"), []byte("plain text"))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestAnalyzeCreditReportRequiresAuth(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeExtractor{})

	_, err := svc.AnalyzeCreditReport(context.Background(), []byte("%PDF-1.4"))
	assert.Error(t, err)
}

const camtDoc = `<?xml version="1.0"?>
<Document><BkToCstmrStmt><Stmt>
  <Ntry><Amt>100.00</Amt><CdtDbtInd>CRDT</CdtDbtInd><BookgDt><Dt>2025-04-01</Dt></BookgDt><AcctSvcrRef>R1</AcctSvcrRef></Ntry>
</Stmt></BkToCstmrStmt></Document>`

func TestAnalyzeStatementXMLStoresTransactions(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExtractor{})

	analysis, err := svc.AnalyzeStatement(authedContext("7"), []byte(camtDoc))
	require.NoError(t, err)
	require.Len(t, analysis.Transactions, 1)

	stored, err := store.GetTransactions(7)
	require.NoError(t, err)
	assert.Equal(t, "R1", stored[0].ID)
}

// minimalPDF builds a one-page PDF with a correct xref table so uploads can
// pass the local pre-check.
func minimalPDF() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 4)
	buf.WriteString("%PDF-1.4\n")
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")
	xref := buf.Len()
	buf.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestAnalyzeCreditReportStoresEncryptedPII(t *testing.T) {
	store := newFakeStore()
	extractor := &fakeExtractor{report: &models.CreditReport{
		CreditScore:         720,
		ConsumerInformation: models.ConsumerInformation{PAN: "ABCDE1234F"},
	}}
	svc := newTestService(store, extractor)

	report, err := svc.AnalyzeCreditReport(authedContext("7"), minimalPDF())
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", report.ConsumerInformation.PAN)

	stored := store.reports[7]
	require.NotNil(t, stored)
	assert.NotEqual(t, "ABCDE1234F", stored.ConsumerInformation.PAN, "PAN must be encrypted at rest")
}

func TestAnalyzeStatementDiscardsStaleResult(t *testing.T) {
	store := newFakeStore()
	extractor := &fakeExtractor{
		statement: &models.StatementAnalysis{
			Transactions: []models.Transaction{{ID: "stale-1", Type: models.TransactionTypeExpense}},
		},
	}
	svc := newTestService(store, extractor)

	// a newer upload arrives while this extraction is in flight
	extractor.onExtract = func() { svc.nextGeneration(7) }

	_, err := svc.AnalyzeStatement(authedContext("7"), minimalPDF())
	assert.ErrorIs(t, err, ErrSuperseded)

	stored, _ := store.GetTransactions(7)
	assert.Empty(t, stored, "stale results must not be persisted")
}

func TestGetCreditReportDecryptsPII(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExtractor{})

	encryptedPAN, err := utils.EncryptPII("ABCDE1234F", "0123456789abcdef")
	require.NoError(t, err)
	store.reports[3] = &models.CreditReport{
		CreditScore:         750,
		ConsumerInformation: models.ConsumerInformation{PAN: encryptedPAN},
	}

	report, err := svc.GetCreditReport(authedContext("3"))
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", report.ConsumerInformation.PAN)
}

func TestGetBehaviorAnalysis(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeExtractor{})
	store.reports[3] = &models.CreditReport{
		CreditScore: 750,
		Accounts: []models.CreditAccount{
			{Status: "Active", OwnershipType: models.OwnershipIndividual, PaymentHistory: []string{"STD", "STD", "STD"}},
			{Status: "Active", OwnershipType: models.OwnershipJoint, PaymentHistory: []string{"90", "90", "90"}},
		},
	}

	analysis, err := svc.GetBehaviorAnalysis(authedContext("3"), 3, models.OwnershipIndividual)
	require.NoError(t, err)
	assert.Equal(t, models.RatingExcellent, analysis.Rating)
	assert.Len(t, analysis.PaymentTrend, 3)

	_, err = svc.GetBehaviorAnalysis(authedContext("3"), 3, "Shared")
	assert.Error(t, err)

	_, err = svc.GetBehaviorAnalysis(authedContext("3"), 7, "")
	assert.Error(t, err)
}

func TestCategorizeTransactionsBatch(t *testing.T) {
	store := newFakeStore()
	store.transactions[5] = []models.Transaction{
		{ID: "t1", Description: "BIGBASKET", Category: models.CategoryUncategorized},
		{ID: "t2", Description: "SWIGGY", Category: models.CategoryUncategorized},
		{ID: "t3", Description: "RENT APRIL", Category: "Rent"},
	}
	extractor := &fakeExtractor{categories: map[string]string{
		"BIGBASKET": "Groceries",
		"SWIGGY":    "Dining",
	}}
	svc := newTestService(store, extractor)

	result, err := svc.CategorizeTransactions(authedContext("5"))
	require.NoError(t, err)
	assert.Equal(t, CategorizeResult{Categorized: 2}, result)
	assert.Equal(t, "Groceries", store.transactions[5][0].Category)
	// already-categorized transactions are untouched
	assert.Equal(t, "Rent", store.transactions[5][2].Category)
}

func TestCategorizeTransactionsContinuesOnFailure(t *testing.T) {
	store := newFakeStore()
	store.transactions[5] = []models.Transaction{
		{ID: "t1", Description: "X", Category: models.CategoryUncategorized},
		{ID: "t2", Description: "Y", Category: models.CategoryUncategorized},
	}
	svc := newTestService(store, &fakeExtractor{categorizeErr: errors.New("model unavailable")})

	result, err := svc.CategorizeTransactions(authedContext("5"))
	require.NoError(t, err)
	assert.Equal(t, CategorizeResult{Failed: 2}, result)
}

func TestClearData(t *testing.T) {
	store := newFakeStore()
	store.transactions[5] = []models.Transaction{{ID: "t1"}}
	store.reports[5] = &models.CreditReport{CreditScore: 700}
	svc := newTestService(store, &fakeExtractor{})

	require.NoError(t, svc.ClearData(authedContext("5")))
	assert.Empty(t, store.transactions[5])
	_, err := store.GetCreditReport(5)
	assert.Error(t, err)
}
