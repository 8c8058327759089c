// Package migrations SQL-схема таблиц products и reviews.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
