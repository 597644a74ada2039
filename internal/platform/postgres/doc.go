// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX, so the same implementation
// works over a connection pool or inside a transaction obtained through
// WithTx.
package postgres
