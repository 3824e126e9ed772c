package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/shopspring/decimal"
)

// ReportService renders read-only views over posted transactions and
// account balances for report collaborators. It has no mutation path.
type ReportService struct {
	repos  *repository.Repositories
	ledger *LedgerService
}

// NewReportService creates a new report service
func NewReportService(repos *repository.Repositories, ledger *LedgerService) *ReportService {
	return &ReportService{repos: repos, ledger: ledger}
}

// GenerateLedgerCSV writes the filtered ledger as CSV
func (s *ReportService) GenerateLedgerCSV(ctx context.Context, filter repository.TransactionFilter) (*bytes.Buffer, error) {
	txs, err := s.repos.Transaction.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"ID", "Date", "Description", "Debit Account", "Credit Account", "Amount", "Source"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, t := range txs {
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.Date.Format("2006-01-02"),
			t.Description,
			t.DebitAccount.Name,
			t.CreditAccount.Name,
			t.Amount.StringFixed(2),
			string(t.Source),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, nil
}

// GenerateTrialBalanceCSV writes the trial balance as CSV; the debit and
// credit totals on the last row are equal whenever the books balance
func (s *ReportService) GenerateTrialBalanceCSV(ctx context.Context) (*bytes.Buffer, error) {
	lines, err := s.ledger.TrialBalance(ctx)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Code", "Account", "Type", "Debit", "Credit"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
		record := []string{
			l.Account.Code,
			l.Account.Name,
			string(l.Account.Type),
			l.Debit.StringFixed(2),
			l.Credit.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{"", "Total", "", totalDebit.StringFixed(2), totalCredit.StringFixed(2)}); err != nil {
		return nil, err
	}

	w.Flush()
	return b, nil
}

// generatePDF renders an HTML template and converts it with wkhtmltopdf
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Path relative to project root (prod), falling back to the package (tests)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateAccountStatementPDF renders a PDF statement for one account:
// every posted movement with a running balance
func (s *ReportService) GenerateAccountStatementPDF(ctx context.Context, accountID uint) (*bytes.Buffer, error) {
	account, err := s.repos.Account.FindByID(ctx, accountID)
	if err != nil {
		return nil, ErrNotFound
	}

	txs, err := s.repos.Transaction.List(ctx, repository.TransactionFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}

	type MovementData struct {
		Date        string
		Description string
		Debit       string
		Credit      string
		Balance     string
	}
	type StatementData struct {
		AccountCode string
		AccountName string
		AccountType string
		Balance     string
		Movements   []MovementData
	}

	data := StatementData{
		AccountCode: account.Code,
		AccountName: account.Name,
		AccountType: string(account.Type),
		Balance:     account.Balance.StringFixed(2),
	}

	running := decimal.Zero
	for _, t := range txs {
		m := MovementData{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
		}
		if t.DebitAccountID == accountID {
			running = running.Add(t.Amount)
			m.Debit = t.Amount.StringFixed(2)
		} else {
			running = running.Sub(t.Amount)
			m.Credit = t.Amount.StringFixed(2)
		}
		m.Balance = running.StringFixed(2)
		data.Movements = append(data.Movements, m)
	}

	return s.generatePDF("statement.html", data)
}
