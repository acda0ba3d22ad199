package tracestore

import "database/sql"

// Query filters ListTransactions. A zero value matches everything.
type Query struct {
	Kind          string
	MinAddress    uint64
	MaxAddress    uint64
	EnableAddress bool
}

// Reader opens a previously written trace database read-only.
type Reader struct {
	*sql.DB

	filename string
}

// NewReader opens the trace database at filename (its full path, including
// extension).
func NewReader(filename string) *Reader {
	return &Reader{filename: filename}
}

// Init establishes the connection.
func (r *Reader) Init() {
	db, err := sql.Open("sqlite3", r.filename)
	if err != nil {
		panic(err)
	}

	r.DB = db
}

// ListTransactions returns every Record matching query.
func (r *Reader) ListTransactions(query Query) []Record {
	sqlStr := `
		SELECT id, kind, address, charge_time, levels_walked
		FROM transactions
		WHERE 1 = 1
	`
	args := []any{}

	if query.Kind != "" {
		sqlStr += " AND kind = ?"
		args = append(args, query.Kind)
	}

	if query.EnableAddress {
		sqlStr += " AND address >= ? AND address <= ?"
		args = append(args, query.MinAddress, query.MaxAddress)
	}

	rows, err := r.Query(sqlStr, args...)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			panic(err)
		}
	}()

	records := []Record{}

	for rows.Next() {
		var rec Record

		err := rows.Scan(&rec.ID, &rec.Kind, &rec.Address, &rec.ChargeTime, &rec.LevelsWalked)
		if err != nil {
			panic(err)
		}

		records = append(records, rec)
	}

	return records
}

// Summary reports aggregate counts and mean charge time per transaction
// kind, the figures the monitor dashboard renders.
type Summary struct {
	Kind           string
	Count          int
	MeanChargeTime float64
}

// Summarize groups every transaction in the trace by kind.
func (r *Reader) Summarize() []Summary {
	rows, err := r.Query(`
		SELECT kind, COUNT(*), AVG(charge_time)
		FROM transactions
		GROUP BY kind
		ORDER BY kind
	`)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			panic(err)
		}
	}()

	summaries := []Summary{}

	for rows.Next() {
		var s Summary

		if err := rows.Scan(&s.Kind, &s.Count, &s.MeanChargeTime); err != nil {
			panic(err)
		}

		summaries = append(summaries, s)
	}

	return summaries
}
