// Package ofx reads OFX and QFX bank statements into transactions that the
// ledger can import.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// ImportedTransaction is one statement line. Amount is a positive magnitude;
// debits become expenses and credits become income.
type ImportedTransaction struct {
	Amount         decimal.Decimal
	FITID          string
	StatementAcct  string
	Date           string
	Payee          string
	Memo           string
	Type           model.TransactionType
	OFXTransaction string
}

// Parser reads OFX/QFX statements.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocess fixes common formatting issues in bank-exported files.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(ctx context.Context, reader io.Reader) (*ofxgo.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w: %w", common.ErrExternalParse, err)
	}
	return resp, nil
}

// ParseFile parses every bank and credit card statement in the file.
// Zero-amount lines are skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]ImportedTransaction, error) {
	resp, err := p.parse(ctx, reader)
	if err != nil {
		return nil, err
	}

	var out []ImportedTransaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		out = p.appendTransactions(out, stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		out = p.appendTransactions(out, stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))
	}

	p.logger.Info("Parsed OFX file",
		"total_transactions", len(out),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return out, nil
}

func (p *Parser) appendTransactions(out []ImportedTransaction, txns []ofxgo.Transaction, acct string) []ImportedTransaction {
	for _, t := range txns {
		imported, ok := p.convert(t, acct)
		if !ok {
			continue
		}
		out = append(out, imported)
	}
	return out
}

func (p *Parser) convert(t ofxgo.Transaction, acct string) (ImportedTransaction, bool) {
	signed, err := decimal.NewFromString(t.TrnAmt.FloatString(4))
	if err != nil {
		p.logger.Warn("Skipping transaction with unreadable amount", "fitid", t.FiTID, "error", err)
		return ImportedTransaction{}, false
	}
	signed = model.RoundAmount(signed)
	if signed.IsZero() {
		p.logger.Debug("Skipping zero-amount transaction", "fitid", t.FiTID)
		return ImportedTransaction{}, false
	}

	kind := model.TransactionTypeIncome
	if signed.IsNegative() {
		kind = model.TransactionTypeExpense
	}

	return ImportedTransaction{
		FITID:          string(t.FiTID),
		StatementAcct:  acct,
		Date:           model.FormatDate(t.DtPosted.Time),
		Payee:          payeeName(t),
		Memo:           strings.TrimSpace(string(t.Memo)),
		Amount:         signed.Abs(),
		Type:           kind,
		OFXTransaction: t.TrnType.String(),
	}, true
}

// payeeName picks the cleanest merchant name the statement offers.
func payeeName(t ofxgo.Transaction) string {
	if t.Payee != nil && t.Payee.Name != "" {
		return strings.TrimSpace(string(t.Payee.Name))
	}

	name := string(t.Name)
	if t.Memo != "" && isGenericDescription(name) {
		name = string(t.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " posting dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	if name == "" {
		return "Unknown payee"
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Accounts returns the statement account IDs in file order.
func (p *Parser) Accounts(ctx context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(ctx, reader)
	if err != nil {
		return nil, err
	}

	var accounts []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			accounts = append(accounts, id)
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			add(string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			add(string(stmt.CCAcctFrom.AcctID))
		}
	}

	return accounts, nil
}
