package genai

// Prompt templates for the extraction service. Each describes the exact JSON
// shape the schema package expects; field names must stay in sync with the
// raw types there.

const creditReportPrompt = `You are an expert financial analyst specializing in Indian credit reports.
Analyze the attached CIBIL report PDF and respond with a single JSON object, no surrounding text, with this shape:
{
  "creditScore": number (the CIBIL score, 300-900),
  "consumerInformation": {"name": string, "dateOfBirth": "DD-MM-YYYY", "gender": string, "pan": string, "mobileNumber": string, "address": string},
  "accountSummary": {"totalAccounts": number, "activeAccounts": number, "highCreditOrSanctionedAmount": number, "currentBalance": number, "overdueAmount": number, "writtenOffAmount": number},
  "enquirySummary": {"totalEnquiries": number, "last30Days": number, "last12Months": number, "last24Months": number, "mostRecentEnquiryDate": "DD-MM-YYYY"},
  "detailedAccounts": [{
    "accountType": string (e.g. "Credit Card", "Personal Loan"),
    "ownershipType": "Individual" | "Guarantor" | "Joint",
    "status": string (e.g. "Active", "Closed", "Written Off", "Settled", "Doubtful"),
    "sanctionedAmount": number, "currentBalance": number, "overdueAmount": number, "emi": number,
    "dateOpened": "DD-MM-YYYY", "dateClosed": "DD-MM-YYYY",
    "paymentHistory": [string]
  }]
}
paymentHistory is the monthly DPD sequence, most recent month first, up to 36 entries. Use "STD" or "0" for paid on time, the number of days for late payments (e.g. "30", "90", "120"), and "XXX" where the report shows no data.
All dates in DD-MM-YYYY format. Use 0 for numeric fields that are not present in the report.`

const statementPrompt = `You are an expert financial analyst. Extract every transaction from the attached bank statement and respond with a single JSON object, no surrounding text, with this shape:
{
  "transactions": [{"id": string (unique), "date": "YYYY-MM-DD", "description": string, "amount": number, "type": "income" | "expense", "category": string}],
  "summary": {"totalIncome": number, "totalExpenses": number, "netSavings": number, "startDate": "YYYY-MM-DD", "endDate": "YYYY-MM-DD"}
}
Categorize each transaction (e.g. Groceries, Rent, Salary); use "Uncategorized" when the category is not obvious.`

const categorizePrompt = `Assign a single spending category to this bank transaction.
Description: %q
Amount: %.2f
Respond with a JSON object of the shape {"category": string}. Use a common personal-finance category such as Groceries, Rent, Salary, Utilities, Dining, Travel, Shopping, Healthcare, Entertainment or Transfers.`
