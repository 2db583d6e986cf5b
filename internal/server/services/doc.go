// Package services contains the server-side business logic: identity
// resolution, the access policy, the account registry, the job catalog and
// the application workflow. Services depend on repositories through
// repomanager.RepositoryManager, so every operation can run against the
// connection pool or inside a dbx.WithTx transaction.
package services
