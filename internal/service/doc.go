// Package service provides the application-level services: user account
// management, word-list management with TSV import/export, and the
// single-slot study session driver that binds the study engines to the
// persistent stores.
package service
