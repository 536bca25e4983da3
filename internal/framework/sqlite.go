// SQLite adapter: exposes a "db" module to user scripts.
//
// Two designated targets, one per call signature:
//
//	db.query(dsn, sql, params...) -> array of row objects
//	db.exec(dsn, sql, params...)  -> {rows_affected, last_insert_id}
//
// Connections are cached per DSN and capped at one open connection each so
// ":memory:" databases stay coherent across calls.
package framework

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
	_ "modernc.org/sqlite"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// SQLiteAdapter binds local SQLite databases into the script environment.
type SQLiteAdapter struct {
	log zerolog.Logger

	mu    sync.Mutex
	conns map[string]*sql.DB
}

// NewSQLite creates the adapter.
func NewSQLite(log zerolog.Logger) *SQLiteAdapter {
	return &SQLiteAdapter{
		log:   log,
		conns: make(map[string]*sql.DB),
	}
}

// Name implements Adapter.
func (a *SQLiteAdapter) Name() string { return "sqlite" }

// Targets implements Adapter.
func (a *SQLiteAdapter) Targets() []intercept.Target {
	return []intercept.Target{
		{Name: "db.query", MinArgs: 2, MaxArgs: -1, Func: a.query},
		{Name: "db.exec", MinArgs: 2, MaxArgs: -1, Func: a.exec},
	}
}

// Expose implements Adapter.
func (a *SQLiteAdapter) Expose(L *lua.LState, bound map[string]intercept.TargetFunc) error {
	targets := a.Targets()
	exposeModule(L, "db", map[string]lua.LGFunction{
		"query": BindFunc(targets[0], bound[targets[0].Name]),
		"exec":  BindFunc(targets[1], bound[targets[1].Name]),
	})
	return nil
}

// Close implements Adapter.
func (a *SQLiteAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var firstErr error
	for dsn, db := range a.conns {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(a.conns, dsn)
	}
	return firstErr
}

func (a *SQLiteAdapter) query(args []any, kwargs map[string]any) (any, error) {
	dsn, stmt, params, err := sqliteArgs("db.query", args)
	if err != nil {
		return nil, err
	}
	db, err := a.open(dsn)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]any, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				vals[i] = string(b)
			}
			row[col] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (a *SQLiteAdapter) exec(args []any, kwargs map[string]any) (any, error) {
	dsn, stmt, params, err := sqliteArgs("db.exec", args)
	if err != nil {
		return nil, err
	}
	db, err := a.open(dsn)
	if err != nil {
		return nil, err
	}

	res, err := db.Exec(stmt, params...)
	if err != nil {
		return nil, fmt.Errorf("exec failed: %w", err)
	}
	affected, _ := res.RowsAffected()
	lastID, _ := res.LastInsertId()
	return map[string]any{
		"rows_affected":  affected,
		"last_insert_id": lastID,
	}, nil
}

func (a *SQLiteAdapter) open(dsn string) (*sql.DB, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if db, ok := a.conns[dsn]; ok {
		return db, nil
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", dsn, err)
	}
	// One connection per DSN keeps :memory: databases stable.
	db.SetMaxOpenConns(1)
	a.conns[dsn] = db
	a.log.Debug().Str("dsn", dsn).Msg("opened sqlite database")
	return db, nil
}

func sqliteArgs(method string, args []any) (dsn, stmt string, params []any, err error) {
	if len(args) < 2 {
		return "", "", nil, fmt.Errorf("%s requires (dsn, sql, params...)", method)
	}
	dsn, ok := args[0].(string)
	if !ok {
		return "", "", nil, fmt.Errorf("%s: dsn must be a string", method)
	}
	stmt, ok = args[1].(string)
	if !ok {
		return "", "", nil, fmt.Errorf("%s: sql must be a string", method)
	}
	return dsn, stmt, args[2:], nil
}
