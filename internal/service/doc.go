// Package service provides application-level services that orchestrate
// generation, persistence, and user accounts. Services depend on the store
// interfaces and the generation boundary, never on concrete database or
// gateway types.
package service
