// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries wraps all statements of the language and category tables.
type Queries struct {
	db      DBTX
	dialect Dialect
}

// New creates Queries for a SQLite connection.
func New(db DBTX) *Queries {
	return &Queries{db: db, dialect: DialectSQLite}
}

// NewWithDialect creates Queries for the given dialect.
func NewWithDialect(db DBTX, dialect Dialect) *Queries {
	return &Queries{db: db, dialect: dialect}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

// Dialect returns the SQL dialect of the queries.
func (q *Queries) Dialect() Dialect {
	return q.dialect
}

const languageColumns = `language_id, language_code, country_code, language_name, is_default, has_content`

func scanLanguage(row interface{ Scan(...any) error }) (Language, error) {
	var l Language
	err := row.Scan(&l.ID, &l.LanguageCode, &l.CountryCode, &l.LanguageName, &l.IsDefault, &l.HasContent)
	return l, err
}

// CreateLanguageParams holds the columns of a new language.
type CreateLanguageParams struct {
	LanguageCode string
	CountryCode  string
	LanguageName string
	IsDefault    bool
	HasContent   bool
}

// CreateLanguage inserts a language and returns it.
func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (Language, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO language (language_code, country_code, language_name, is_default, has_content)
		VALUES (?, ?, ?, ?, ?)`,
		arg.LanguageCode, arg.CountryCode, arg.LanguageName, arg.IsDefault, arg.HasContent,
	)
	if err != nil {
		return Language{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Language{}, err
	}
	return Language{
		ID:           id,
		LanguageCode: arg.LanguageCode,
		CountryCode:  arg.CountryCode,
		LanguageName: arg.LanguageName,
		IsDefault:    arg.IsDefault,
		HasContent:   arg.HasContent,
	}, nil
}

// GetLanguage returns a language by ID.
func (q *Queries) GetLanguage(ctx context.Context, id int64) (Language, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+languageColumns+` FROM language WHERE language_id = ?`, id)
	return scanLanguage(row)
}

// GetLanguageByCode returns a language by its language code.
func (q *Queries) GetLanguageByCode(ctx context.Context, code string) (Language, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+languageColumns+` FROM language WHERE language_code = ?`, code)
	return scanLanguage(row)
}

// ListLanguages returns all languages ordered by ID.
func (q *Queries) ListLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+languageColumns+` FROM language ORDER BY language_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// DeleteLanguage removes a language; its items are removed by cascade.
func (q *Queries) DeleteLanguage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM language WHERE language_id = ?`, id)
	return err
}

// ClearDefaultLanguage removes the default flag from every language.
func (q *Queries) ClearDefaultLanguage(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `UPDATE language SET is_default = ?`, false)
	return err
}

// SetDefaultLanguage marks a language as the default one.
func (q *Queries) SetDefaultLanguage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `UPDATE language SET is_default = ? WHERE language_id = ?`, true, id)
	return err
}

// ClearHasContent disables multilingual content for every language.
func (q *Queries) ClearHasContent(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `UPDATE language SET has_content = ?`, false)
	return err
}

// SetHasContent enables multilingual content for the given languages.
func (q *Queries) SetHasContent(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, true)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE language SET has_content = ? WHERE language_id IN (`+placeholders(len(ids))+`)`, args...)
	return err
}

// IsNotFound reports whether err is a "no rows" error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
