package postgres

import (
	"context"
	"io"

	"github.com/jacobpatterson1549/tennis-scorer/db/sql"
)

type mockDatabase struct {
	SetupFunc     func(ctx context.Context, files []io.Reader) error
	QueryFunc     func(ctx context.Context, q sql.Query, dest ...interface{}) error
	QueryRowsFunc func(ctx context.Context, q sql.Query, scanFunc func(s sql.Scanner) error) error
	ExecFunc      func(ctx context.Context, queries ...sql.Query) error
}

func (m mockDatabase) Setup(ctx context.Context, files []io.Reader) error {
	return m.SetupFunc(ctx, files)
}

func (m mockDatabase) Query(ctx context.Context, q sql.Query, dest ...interface{}) error {
	return m.QueryFunc(ctx, q, dest...)
}

func (m mockDatabase) QueryRows(ctx context.Context, q sql.Query, scanFunc func(s sql.Scanner) error) error {
	return m.QueryRowsFunc(ctx, q, scanFunc)
}

func (m mockDatabase) Exec(ctx context.Context, queries ...sql.Query) error {
	return m.ExecFunc(ctx, queries...)
}

type mockScanner func(dest ...interface{}) error

func (m mockScanner) Scan(dest ...interface{}) error {
	return m(dest...)
}
