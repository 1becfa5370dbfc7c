package core

import "strings"

// Column names an upload must carry to be aggregated. Header matching is
// case-insensitive after trimming since bank exports disagree on casing.
const (
	DirectionColumn = "DrCr"
	BalanceColumn   = "balance"
)

const (
	Credit Direction = "Cr"
	Debit  Direction = "Db"
)

type (
	// Direction classifies a transaction row as an incoming (credit) or
	// outgoing (debit) movement.
	Direction string

	// Record is one uploaded row keyed by column name. Cells keep the raw
	// text of the upload.
	Record map[string]string

	// Dataset is an ordered tabular upload: header names in input order plus
	// one record per data row. Datasets are transient; rows persist only
	// embedded in a HistoryEntry.
	Dataset struct {
		Columns []string
		Records []Record
	}
)

// ParseDirection classifies a raw direction cell. Cells holding neither the
// credit nor the debit marker report ok=false and count toward neither total.
func ParseDirection(cell string) (dir Direction, ok bool) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "cr":
		return Credit, true
	case "db":
		return Debit, true
	}
	return "", false
}

// FindColumn returns the dataset's own spelling of the named column.
func (d Dataset) FindColumn(name string) (string, bool) {
	for _, c := range d.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return c, true
		}
	}
	return "", false
}

// Len returns the number of data rows.
func (d Dataset) Len() int {
	return len(d.Records)
}
