package google

import (
	ports "fintrack/internal/sheets"
)

var transactionHeader = []interface{}{"ID", "Date", "Description", "Amount", "Category"}

// snapshotRows lays the snapshot out as the transaction table in A:E with
// the totals and breakdown to its right in G:H.
func snapshotRows(snap ports.Snapshot) [][]interface{} {
	side := [][]interface{}{
		{"Total income", snap.Summary.Income.String()},
		{"Total expense", snap.Summary.Expense.String()},
		{"Bank amount", snap.Summary.BankAmount.String()},
		{"Net balance", snap.Summary.Net.String()},
		{"", ""},
		{"Category", "Spent"},
	}
	for _, c := range snap.Breakdown {
		side = append(side, []interface{}{c.Name, c.Amount.String()})
	}

	n := len(snap.Transactions) + 1
	if len(side) > n {
		n = len(side)
	}

	rows := make([][]interface{}, n)
	for i := range rows {
		row := make([]interface{}, 0, 8)
		switch {
		case i == 0:
			row = append(row, transactionHeader...)
		case i <= len(snap.Transactions):
			t := snap.Transactions[i-1]
			row = append(row, t.ID, t.Date, t.Desc, t.Amount.String(), t.Category)
		default:
			row = append(row, "", "", "", "", "")
		}
		if i < len(side) {
			row = append(row, "")
			row = append(row, side[i]...)
		}
		rows[i] = row
	}
	return rows
}
