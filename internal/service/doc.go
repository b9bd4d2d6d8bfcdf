// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
//   - AuthService: registration, password login, refresh-token exchange and logout.
//   - IdentityResolver: turns a bearer access token into the user it was issued for.
//   - TaskService: owner-scoped task CRUD.
//
// Every operation that touches the store runs inside a single transaction
// (store.RunInTransaction) using transaction-bound stores obtained via WithTx.
// Services receive their dependencies through constructor injection and never
// depend on a specific storage backend.
package service
