package table

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func writeSQLite(path, tableName string, frame *Frame) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(tableName)); err != nil {
		return err
	}

	defs := make([]string, len(frame.columns))
	marks := make([]string, len(frame.columns))
	for i, c := range frame.columns {
		defs[i] = quoteIdent(c) + " TEXT"
		marks[i] = "?"
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))); err != nil {
		return err
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(tableName), strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(frame.columns))
	for _, row := range frame.rows {
		for i, c := range row {
			args[i] = sql.NullString{String: c.Value, Valid: c.Valid}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func readSQLite(path, tableName string) (*Frame, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT * FROM " + quoteIdent(tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	frame := NewFrame(columns...)

	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		cells := make([]Cell, len(columns))
		for i, v := range values {
			cells[i] = Cell{Value: v.String, Valid: v.Valid}
		}
		if err := frame.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return frame, rows.Err()
}
