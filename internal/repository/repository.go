// Copyright (c) 2025-2026 TechConf MCP Authors and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package repository is the read-query layer over the conference store.
// All operations are side-effect free and take an sqlx connection supplied
// by the store's Read discipline; none of them mask storage faults as
// empty results.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

const dbTag = "db"

// ErrInvalidDateRange signals that a day/week window computation could not
// produce a valid interval.  It is an internal fault, not a user input
// error.
var ErrInvalidDateRange = errors.New("invalid date range")

func newBindAddFn(buf *strings.Builder, binds *[]any) func(b bool, expr string, v any) {
	return func(b bool, expr string, v any) {
		if !b {
			return
		}
		buf.WriteString(expr)
		if v != nil {
			*binds = append(*binds, v)
		}
	}
}

// fetchOne runs a single-row query, mapping sql.ErrNoRows to an absent
// result: point lookups report "not there" as (nil, nil).
func fetchOne[T any](ctx context.Context, conn sqlx.ExtContext, stmt string, args ...any) (*T, error) {
	t := new(T)
	if err := sqlx.GetContext(ctx, conn, t, conn.Rebind(stmt), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// fetchAll runs a multi-row query into a slice of T.
func fetchAll[T any](ctx context.Context, conn sqlx.ExtContext, stmt string, args ...any) ([]T, error) {
	var tt []T
	if err := sqlx.SelectContext(ctx, conn, &tt, conn.Rebind(stmt), args...); err != nil {
		return nil, err
	}
	return tt, nil
}
