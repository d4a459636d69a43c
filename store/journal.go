package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"evently-backend/logger"
	"fmt"
	"strings"
	"time"
)

const journalTable = "Notification_Journal"

var journalCols = []string{"kind", "payload", "created_date"}

// Journal persists every emitted notification to MySQL for administrative
// reporting. It satisfies notify.Emitter; the in-memory box office remains
// the source of truth, so journal failures are logged and never propagated.
type Journal struct {
	db *sql.DB
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Emit(ctx context.Context, kind string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf(ctx, "emit: unable to marshal %s journal entry: %+v", kind, err)
		return
	}

	err = j.record(kind, string(body))
	if err != nil {
		logger.Errorf(ctx, "emit: unable to journal %s notification: %+v", kind, err)
	}
}

func (j *Journal) record(kind, payload string) error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("record: error begining db transaction: %s", err)
	}

	values := []interface{}{kind, payload, time.Now().UTC()}

	_, err = create(tx, journalTable, journalCols, values)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("record: error inserting journal entry: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("record: error commiting journal entry: %w", err)
	}

	return nil
}

func create(tx *sql.Tx, table string, cols []string, values []interface{}) (int64, error) {
	var params []string

	for range cols {
		params = append(params, "?")
	}

	tsql := fmt.Sprintf(`INSERT INTO %s(%s) VALUES (%s);`, table, strings.Join(cols, ", "), strings.Join(params, ", "))

	stmt, err := tx.Prepare(tsql)
	if err != nil {
		return -1, fmt.Errorf("create: error preparing sql query: %s", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(values...)
	if err != nil {
		return -1, fmt.Errorf("create: unable to insert record in %s: %s", table, err)
	}

	return result.LastInsertId()
}
