package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ClosingBalancePolicy selects how Aggregate derives TotalBalance from an
// upload.
type ClosingBalancePolicy string

const (
	// ClosingBalanceLastRow takes the balance cell of the final row as the
	// closing figure. Uploads carry a running balance column, so the last row
	// already holds it; the figure is never recomputed as credit minus debit.
	ClosingBalanceLastRow ClosingBalancePolicy = "last-row"
)

// DefaultClosingBalance is the policy Aggregate applies to every upload.
const DefaultClosingBalance = ClosingBalanceLastRow

var (
	ErrMissingColumns = errors.New("dataset must contain 'DrCr' and 'balance' columns")
	ErrEmptyDataset   = errors.New("dataset contains no rows")
)

// SchemaError reports an upload whose shape cannot be aggregated. It is
// terminal for the triggering upload and surfaces to the user unchanged.
type SchemaError struct {
	Reason error
}

func (e *SchemaError) Error() string { return e.Reason.Error() }
func (e *SchemaError) Unwrap() error { return e.Reason }

// Summary holds the aggregate figures computed from one upload.
type Summary struct {
	TotalBalance float64 `json:"total_balance"`
	TotalCredit  float64 `json:"total_credit"`
	TotalDebit   float64 `json:"total_debit"`
}

// Aggregate computes the summary figures for an uploaded dataset.
//
// TotalCredit and TotalDebit sum the balance cells of credit and debit rows;
// rows with an unrecognized direction count toward neither. TotalBalance
// follows DefaultClosingBalance. Datasets without the required columns, with
// no rows, or with a non-numeric balance cell fail with a SchemaError and
// leave no partial result.
func Aggregate(ds Dataset) (Summary, error) {
	dirCol, dirOK := ds.FindColumn(DirectionColumn)
	balCol, balOK := ds.FindColumn(BalanceColumn)
	if !dirOK || !balOK {
		return Summary{}, &SchemaError{Reason: ErrMissingColumns}
	}
	if len(ds.Records) == 0 {
		return Summary{}, &SchemaError{Reason: ErrEmptyDataset}
	}

	var s Summary
	balances := make([]float64, len(ds.Records))
	for i, rec := range ds.Records {
		bal, err := strconv.ParseFloat(strings.TrimSpace(rec[balCol]), 64)
		if err != nil {
			return Summary{}, &SchemaError{
				Reason: fmt.Errorf("row %d: balance %q is not a number", i+1, rec[balCol]),
			}
		}
		balances[i] = bal

		if dir, ok := ParseDirection(rec[dirCol]); ok {
			switch dir {
			case Credit:
				s.TotalCredit += bal
			case Debit:
				s.TotalDebit += bal
			}
		}
	}

	switch DefaultClosingBalance {
	case ClosingBalanceLastRow:
		s.TotalBalance = balances[len(balances)-1]
	}
	return s, nil
}
