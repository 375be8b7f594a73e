package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

// FakeDB satisfies db.DB for service tests. WithTx runs the callback against
// itself, so code under test exercises its transactional path without a
// database. Query methods are not implemented; repositories are mocked at
// their own interface.
type FakeDB struct{}

var _ db.DB = (*FakeDB)(nil)

func (f *FakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("FakeDB.Exec: not implemented, mock the repository instead")
}

func (f *FakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("FakeDB.Query: not implemented, mock the repository instead")
}

func (f *FakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("FakeDB.QueryRow: not implemented, mock the repository instead")
}

func (f *FakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}
