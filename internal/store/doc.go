// Package store defines the persistence boundary of the application:
// the store interfaces consumed by the service layer, the DBTX
// abstraction over connections and transactions, transaction helpers,
// and the shared error taxonomy. Concrete implementations live under
// internal/platform/postgres.
package store
