// Package postgres provides PostgreSQL implementations of the store
// interfaces, written as raw SQL over store.DBTX so every store can run
// against either a connection or a transaction.
package postgres
