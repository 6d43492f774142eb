package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/ofx"
)

// ProgressReporter receives import progress. *progressbar.ProgressBar
// satisfies it.
type ProgressReporter interface {
	Add(n int) error
	Finish() error
}

// ImportOptions configures ImportStatement.
type ImportOptions struct {
	// Progress, when set, is called once with the number of statement lines.
	Progress func(total int) ProgressReporter
}

// ImportResult counts what happened to each statement line.
type ImportResult struct {
	Imported   int
	Duplicates int
	Skipped    int
}

// ImportStatement records the transactions of an OFX/QFX statement against
// accountID. Lines whose FITID was already imported count as duplicates.
func (s *Service) ImportStatement(ctx context.Context, accountID string, r io.Reader, opts ImportOptions) (ImportResult, error) {
	var result ImportResult

	if _, err := s.storage.GetAccount(ctx, accountID); err != nil {
		return result, fmt.Errorf("account %s: %w", accountID, err)
	}

	lines, err := ofx.NewParser(s.logger).ParseFile(ctx, r)
	if err != nil {
		return result, err
	}
	if len(lines) == 0 {
		return result, nil
	}

	s.checkpoint(ctx, "import")

	var progress ProgressReporter
	if opts.Progress != nil {
		progress = opts.Progress(len(lines))
		defer func() { _ = progress.Finish() }()
	}

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		_, err := s.RecordTransaction(ctx, NewTransaction{
			Amount:    line.Amount,
			AccountID: accountID,
			PayeeName: line.Payee,
			Date:      line.Date,
			Notes:     line.Memo,
			ImportID:  line.FITID,
			Type:      line.Type,
		})
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, common.ErrDuplicateEntry):
			result.Duplicates++
		case errors.Is(err, common.ErrValidation):
			s.logger.Warn("skipping invalid statement line", "fitid", line.FITID, "error", err)
			result.Skipped++
		default:
			return result, fmt.Errorf("failed to import %s: %w", line.FITID, err)
		}

		if progress != nil {
			_ = progress.Add(1)
		}
	}

	s.logger.Info("statement imported",
		"account_id", accountID,
		"imported", result.Imported,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped)
	return result, nil
}
