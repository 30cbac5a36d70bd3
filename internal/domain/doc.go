// Package domain defines core data models and interfaces shared across the
// engine. It contains plain types (session state, derived keys, statistics)
// and contracts (storage interfaces) only.
package domain
