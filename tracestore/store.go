// Package tracestore persists completed SMC transactions to a SQLite
// database for later inspection, the way the simulator's own trace tooling
// persists tasks.
package tracestore

import (
	"database/sql"
	"fmt"
	"os"

	// Registers the sqlite3 driver with database/sql.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/smc/sim"
)

// Record is one completed read or write transaction as observed by the
// orchestrator's OnTransactionComplete hook.
type Record struct {
	ID           string
	Kind         string
	Address      uint64
	ChargeTime   sim.VTimeInSec
	LevelsWalked int
}

// Store batches Records and flushes them to a SQLite database.
type Store struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	pending   []Record
	batchSize int
}

// NewStore creates a Store backed by the database at path (without its
// .sqlite3 extension). An empty path makes Init pick a random name.
func NewStore(path string) *Store {
	s := &Store{
		dbName:    path,
		batchSize: 10000,
	}

	atexit.Register(func() { s.Flush() })

	return s
}

// Init creates the database file and the transactions table. It panics if
// the target file already exists, since a trace run should never silently
// append to a stale database.
func (s *Store) Init() {
	s.createDatabase(xid.New().String())
	s.createTable()
	s.prepareStatement()
}

// Write buffers a Record, flushing once the batch fills up.
func (s *Store) Write(r Record) {
	if r.ID == "" {
		r.ID = xid.New().String()
	}

	s.pending = append(s.pending, r)
	if len(s.pending) >= s.batchSize {
		s.Flush()
	}
}

// Flush writes all buffered Records to the database in a single
// transaction.
func (s *Store) Flush() {
	if len(s.pending) == 0 {
		return
	}

	s.mustExecute("BEGIN TRANSACTION")
	defer s.mustExecute("COMMIT TRANSACTION")

	for _, r := range s.pending {
		_, err := s.statement.Exec(
			r.ID, r.Kind, r.Address, float64(r.ChargeTime), r.LevelsWalked,
		)
		if err != nil {
			fmt.Println(r)
			panic(err)
		}
	}

	s.pending = nil
}

// Hook adapts the Store into a callback matching smc.Comp's
// OnTransactionComplete field, so wiring a trace is a one-line assignment
// at the call site.
func (s *Store) Hook() func(kind string, address uint64, chargeTime sim.VTimeInSec, levelsWalked int) {
	return func(kind string, address uint64, chargeTime sim.VTimeInSec, levelsWalked int) {
		s.Write(Record{
			Kind:         kind,
			Address:      address,
			ChargeTime:   chargeTime,
			LevelsWalked: levelsWalked,
		})
	}
}

func (s *Store) createDatabase(fileName string) {
	if s.dbName == "" {
		s.dbName = "smc_trace_" + fileName
	}

	filename := s.dbName + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "SMC transaction trace is collected in database: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	s.DB = db
}

func (s *Store) createTable() {
	s.mustExecute(`
		create table transactions
		(
			id            varchar(200) not null,
			kind          varchar(20)  not null,
			address       integer      not null,
			charge_time   float        not null,
			levels_walked integer      not null
		);
	`)

	s.mustExecute(`create index transactions_kind_index on transactions (kind);`)
	s.mustExecute(`create index transactions_address_index on transactions (address);`)
}

func (s *Store) prepareStatement() {
	stmt, err := s.Prepare(`INSERT INTO transactions VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		panic(err)
	}

	s.statement = stmt
}

func (s *Store) mustExecute(query string) sql.Result {
	res, err := s.Exec(query)
	if err != nil {
		fmt.Printf("failed to execute: %s\n", query)
		panic(err)
	}

	return res
}
