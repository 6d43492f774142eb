package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
)

func TestTransaction_Validate(t *testing.T) {
	valid := func() Transaction {
		return Transaction{
			AccountID: "acct-1",
			Type:      TransactionTypeExpense,
			Amount:    decimal.RequireFromString("12.50"),
			Date:      "2024-03-05",
		}
	}

	tests := []struct {
		mutate  func(*Transaction)
		name    string
		field   string
		wantErr bool
	}{
		{name: "valid expense", mutate: func(*Transaction) {}},
		{name: "valid transfer", mutate: func(tx *Transaction) { tx.Type = TransactionTypeTransfer }},
		{name: "missing account", mutate: func(tx *Transaction) { tx.AccountID = " " }, wantErr: true, field: "account_id"},
		{name: "unknown type", mutate: func(tx *Transaction) { tx.Type = "refund" }, wantErr: true, field: "type"},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = decimal.Zero }, wantErr: true, field: "amount"},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-3) }, wantErr: true, field: "amount"},
		{name: "rounds to zero", mutate: func(tx *Transaction) { tx.Amount = decimal.RequireFromString("0.004") }, wantErr: true, field: "amount"},
		{name: "short date", mutate: func(tx *Transaction) { tx.Date = "2024-3-05" }, wantErr: true, field: "date"},
		{name: "impossible date", mutate: func(tx *Transaction) { tx.Date = "2024-02-30" }, wantErr: true, field: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(&tx)
			err := tx.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestTransaction_InMonth(t *testing.T) {
	tx := Transaction{Date: "2024-03-31"}
	assert.True(t, tx.InMonth("2024-03"))
	assert.False(t, tx.InMonth("2024-04"))
	assert.False(t, tx.InMonth("2023-03"))
}

func TestTransaction_Normalize(t *testing.T) {
	tx := Transaction{Amount: decimal.RequireFromString("10.005"), Notes: "  lunch ", Date: " 2024-01-02 "}
	tx.Normalize()
	assert.Equal(t, "10.01", tx.Amount.StringFixed(2))
	assert.Equal(t, "lunch", tx.Notes)
	assert.Equal(t, "2024-01-02", tx.Date)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "42", want: "42.00"},
		{input: "$1,234.567", want: "1234.57"},
		{input: " -5.5 ", want: "-5.50"},
		{input: "", wantErr: true},
		{input: "twelve", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestValidateMonth(t *testing.T) {
	assert.NoError(t, ValidateMonth("2024-12"))
	assert.Error(t, ValidateMonth("2024-13"))
	assert.Error(t, ValidateMonth("2024-1"))
	assert.Error(t, ValidateMonth("2024-01-01"))
}

func TestAccount_Validate(t *testing.T) {
	acct := Account{Name: "Checking", Type: AccountTypeChecking, OpeningBalance: decimal.NewFromInt(-20)}
	assert.NoError(t, acct.Validate())

	acct.Type = "brokerage"
	assert.ErrorIs(t, acct.Validate(), common.ErrValidation)

	acct = Account{Type: AccountTypeCash}
	assert.ErrorIs(t, acct.Validate(), common.ErrValidation)
}

func TestAllocation_Validate(t *testing.T) {
	alloc := Allocation{CategoryID: "cat", Month: "2024-05", Assigned: decimal.Zero}
	assert.NoError(t, alloc.Validate())

	alloc.Assigned = decimal.NewFromInt(-1)
	assert.ErrorIs(t, alloc.Validate(), common.ErrValidation)

	alloc = Allocation{CategoryID: "cat", Month: "May", Assigned: decimal.NewFromInt(1)}
	assert.ErrorIs(t, alloc.Validate(), common.ErrValidation)
}

func TestCategoryGroup_IsProtected(t *testing.T) {
	assert.True(t, (&CategoryGroup{Name: MiscellaneousGroup}).IsProtected())
	assert.False(t, (&CategoryGroup{Name: "Housing"}).IsProtected())
}
