package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/learning"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// NewTransaction is the input to RecordTransaction. The payee is named and
// created on first use. When CategoryID is empty an expense takes the payee's
// learned default category.
type NewTransaction struct {
	Amount     decimal.Decimal
	AccountID  string
	PayeeName  string
	CategoryID string
	Date       string
	Notes      string
	ImportID   string
	Type       model.TransactionType
}

// TransactionChanges lists the fields to change on an existing transaction.
// Nil fields are left as they are; an empty CategoryID clears the category.
type TransactionChanges struct {
	Amount     *decimal.Decimal
	AccountID  *string
	PayeeName  *string
	CategoryID *string
	Date       *string
	Notes      *string
	Type       *model.TransactionType
}

// RecordTransaction validates and saves a transaction, then updates the
// payee's default category from its expense history.
func (s *Service) RecordTransaction(ctx context.Context, in NewTransaction) (*model.Transaction, error) {
	txn := &model.Transaction{
		UserID:     s.userID,
		AccountID:  strings.TrimSpace(in.AccountID),
		CategoryID: strings.TrimSpace(in.CategoryID),
		Date:       in.Date,
		Notes:      in.Notes,
		ImportID:   in.ImportID,
		Type:       in.Type,
		Amount:     in.Amount,
	}
	txn.Normalize()
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	payeeName := strings.TrimSpace(in.PayeeName)
	if payeeName == "" {
		return nil, &model.ValidationError{Field: "payee", Reason: "is required"}
	}

	if err := s.checkReferences(ctx, txn); err != nil {
		return nil, err
	}

	payee, err := s.storage.GetOrCreatePayee(ctx, s.userID, payeeName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve payee %q: %w", payeeName, err)
	}
	txn.PayeeID = payee.ID

	if txn.CategoryID == "" && txn.IsExpense() && payee.DefaultCategoryID != "" {
		txn.CategoryID = payee.DefaultCategoryID
	}

	if err := s.storage.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Debug("transaction recorded",
		"id", txn.ID,
		"payee", payee.Name,
		"type", txn.Type,
		"amount", txn.Amount.StringFixed(2))

	if txn.IsExpense() {
		s.learnPayeeDefault(ctx, payee.ID)
	}

	return txn, nil
}

// UpdateTransaction applies changes to an existing transaction.
func (s *Service) UpdateTransaction(ctx context.Context, id string, changes TransactionChanges) (*model.Transaction, error) {
	txn, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	previousPayee := txn.PayeeID
	wasExpense := txn.IsExpense()

	if changes.Amount != nil {
		txn.Amount = *changes.Amount
	}
	if changes.AccountID != nil {
		txn.AccountID = strings.TrimSpace(*changes.AccountID)
	}
	if changes.CategoryID != nil {
		txn.CategoryID = strings.TrimSpace(*changes.CategoryID)
	}
	if changes.Date != nil {
		txn.Date = *changes.Date
	}
	if changes.Notes != nil {
		txn.Notes = *changes.Notes
	}
	if changes.Type != nil {
		txn.Type = *changes.Type
	}
	txn.Normalize()
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, txn); err != nil {
		return nil, err
	}

	if changes.PayeeName != nil {
		name := strings.TrimSpace(*changes.PayeeName)
		if name == "" {
			return nil, &model.ValidationError{Field: "payee", Reason: "is required"}
		}
		payee, err := s.storage.GetOrCreatePayee(ctx, s.userID, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve payee %q: %w", name, err)
		}
		txn.PayeeID = payee.ID
	}

	if err := s.storage.UpdateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	if txn.IsExpense() && txn.PayeeID != "" {
		s.learnPayeeDefault(ctx, txn.PayeeID)
	}
	if wasExpense && previousPayee != "" && previousPayee != txn.PayeeID {
		s.learnPayeeDefault(ctx, previousPayee)
	}

	return txn, nil
}

// DeleteTransaction removes a transaction.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.storage.DeleteTransaction(ctx, id)
}

// Transactions lists the user's transactions for month, or all of them when
// month is empty.
func (s *Service) Transactions(ctx context.Context, month string) ([]model.Transaction, error) {
	if month == "" {
		return s.storage.ListTransactions(ctx, s.userID)
	}
	if err := model.ValidateMonth(month); err != nil {
		return nil, err
	}
	return s.storage.ListTransactionsByMonth(ctx, s.userID, month)
}

// checkReferences surfaces a missing account or category as not found
// before anything is written.
func (s *Service) checkReferences(ctx context.Context, txn *model.Transaction) error {
	if _, err := s.storage.GetAccount(ctx, txn.AccountID); err != nil {
		return err
	}
	if txn.CategoryID != "" {
		if _, err := s.storage.GetCategory(ctx, txn.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

// learnPayeeDefault recomputes the payee's default category. Failures are
// logged and swallowed; the write that triggered learning has already succeeded.
func (s *Service) learnPayeeDefault(ctx context.Context, payeeID string) {
	unlock := s.payeeLocks.Lock(payeeID)
	defer unlock()

	if err := s.learn(ctx, payeeID); err != nil {
		s.logger.Warn("failed to learn payee default category", "payee_id", payeeID, "error", err)
	}
}

func (s *Service) learn(ctx context.Context, payeeID string) error {
	expenses, err := s.storage.ListExpensesByPayee(ctx, payeeID)
	if err != nil {
		return fmt.Errorf("failed to load payee history: %w", err)
	}

	categoryID, ok := learning.LearnDefaultCategory(payeeID, expenses)
	if !ok {
		return nil
	}

	payee, err := s.storage.GetPayee(ctx, payeeID)
	if err != nil {
		return err
	}
	if payee.DefaultCategoryID == categoryID {
		return nil
	}

	if err := s.storage.SetPayeeDefaultCategory(ctx, payeeID, categoryID); err != nil {
		return fmt.Errorf("failed to set default category: %w", err)
	}
	s.logger.Debug("payee default category learned", "payee", payee.Name, "category_id", categoryID)
	return nil
}
