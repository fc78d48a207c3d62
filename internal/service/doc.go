// Package service contains the application services that orchestrate domain
// logic and persistence: deck management, card management with AI-assisted
// generation, and study recording/statistics. Services depend on the store
// interfaces and never on concrete database types, except for transaction
// orchestration via *sql.DB.
package service
