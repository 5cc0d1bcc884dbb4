// Package api implements the HTTP handlers for the vocabulary trainer:
// authentication, word list management with TSV import/export, and the
// study session endpoints. Handlers translate between HTTP and the
// service layer and never touch the stores directly.
package api
