package camt

import (
	"testing"

	"github.com/finsight/analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Id>STMT-2025-04</Id>
      <Ntry>
        <Amt Ccy="INR">85000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <BookgDt><Dt>2025-04-01</Dt></BookgDt>
        <AcctSvcrRef>REF001</AcctSvcrRef>
        <NtryDtls><TxDtls><RmtInf><Ustrd>SALARY APRIL</Ustrd></RmtInf></TxDtls></NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="INR">2300.50</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2025-04-05</Dt></BookgDt>
        <AddtlNtryInf>UPI GROCERY STORE</AddtlNtryInf>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func TestParse(t *testing.T) {
	analysis, err := Parse([]byte(sampleStatement))
	require.NoError(t, err)

	require.Len(t, analysis.Transactions, 2)

	salary := analysis.Transactions[0]
	assert.Equal(t, "REF001", salary.ID)
	assert.Equal(t, models.TransactionTypeIncome, salary.Type)
	assert.Equal(t, 85000.0, salary.Amount)
	assert.Equal(t, "SALARY APRIL", salary.Description)

	grocery := analysis.Transactions[1]
	assert.Equal(t, "camt-1", grocery.ID)
	assert.Equal(t, models.TransactionTypeExpense, grocery.Type)
	assert.Equal(t, "UPI GROCERY STORE", grocery.Description)
	assert.Equal(t, models.CategoryUncategorized, grocery.Category)

	assert.Equal(t, 85000.0, analysis.Summary.TotalIncome)
	assert.Equal(t, 2300.5, analysis.Summary.TotalExpenses)
	assert.Equal(t, 82699.5, analysis.Summary.NetSavings)
	assert.Equal(t, "2025-04-01", analysis.Summary.StartDate)
	assert.Equal(t, "2025-04-05", analysis.Summary.EndDate)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed xml", "<Document><unclosed"},
		{"no entries", `<Document><BkToCstmrStmt><Stmt></Stmt></BkToCstmrStmt></Document>`},
		{"missing amount", `<Document><BkToCstmrStmt><Stmt><Ntry><BookgDt><Dt>2025-04-05</Dt></BookgDt></Ntry></Stmt></BkToCstmrStmt></Document>`},
		{"missing booking date", `<Document><BkToCstmrStmt><Stmt><Ntry><Amt>10.00</Amt></Ntry></Stmt></BkToCstmrStmt></Document>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}
