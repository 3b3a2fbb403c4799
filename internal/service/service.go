// Package service holds the employee rules: matricule uniqueness, existence
// checks before update and the page window.
//
// Rule violations are returned as *errs.HTTPError. Repository failures are
// passed through so the error handler can tell a rejected value from a
// broken database.
package service
