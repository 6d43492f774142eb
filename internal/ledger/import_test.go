package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
)

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301120000[0:GMT]
<DTEND>20240331120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240310120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024031001
<NAME>CORNER STORE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240315120000[0:GMT]
<TRNAMT>15.00
<FITID>CC2024031501
<NAME>REFUND
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-30.99
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

type countingProgress struct {
	total    int
	added    int
	finished bool
}

func (p *countingProgress) Add(n int) error {
	p.added += n
	return nil
}

func (p *countingProgress) Finish() error {
	p.finished = true
	return nil
}

func TestImportStatement(t *testing.T) {
	checkpoints := &mockCheckpointer{}
	checkpoints.On("AutoCheckpoint", mock.Anything, "import").Return(nil)
	f := newFixture(t, Config{Checkpoints: checkpoints})
	ctx := context.Background()

	progress := &countingProgress{}
	opts := ImportOptions{Progress: func(total int) ProgressReporter {
		progress.total = total
		return progress
	}}

	result, err := f.svc.ImportStatement(ctx, f.account.ID, strings.NewReader(statementOFX), opts)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2}, result)
	assert.Equal(t, 2, progress.total)
	assert.Equal(t, 2, progress.added)
	assert.True(t, progress.finished)

	txns, err := f.svc.Transactions(ctx, "2024-03")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	byImport := map[string]string{}
	for _, txn := range txns {
		byImport[txn.ImportID] = string(txn.Type) + " " + txn.Amount.StringFixed(2)
	}
	assert.Equal(t, "expense 45.99", byImport["CC2024031001"])
	assert.Equal(t, "income 15.00", byImport["CC2024031501"])

	again, err := f.svc.ImportStatement(ctx, f.account.ID, strings.NewReader(statementOFX), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Duplicates: 2}, again)

	txns, err = f.svc.Transactions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, txns, 2, "re-importing the same statement adds nothing")
	checkpoints.AssertNumberOfCalls(t, "AutoCheckpoint", 2)
}

func TestImportStatement_Errors(t *testing.T) {
	f := newFixture(t, Config{})
	ctx := context.Background()

	_, err := f.svc.ImportStatement(ctx, "missing", strings.NewReader(statementOFX), ImportOptions{})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.svc.ImportStatement(ctx, f.account.ID, strings.NewReader("not a statement"), ImportOptions{})
	assert.ErrorIs(t, err, common.ErrExternalParse)
}
