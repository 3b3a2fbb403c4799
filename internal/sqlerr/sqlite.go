package sqlerr

import (
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ConvertSQLiteError converts a go-sqlite3 error into an Error.
//
// SQLite reports constraint failures as "UNIQUE constraint failed: employes.matricule";
// the table and column are recovered from that message.
func ConvertSQLiteError(src sqlite3.Error) *Error {
	tableName, columnName := parseSQLiteConstraintTarget(src.Error())

	return &Error{
		Code:         mapSQLiteCode(src),
		Severity:     SeverityError,
		DatabaseCode: src.ExtendedCode.Error(),
		Message:      src.Error(),
		TableName:    tableName,
		ColumnName:   columnName,
		driverErr:    src,
	}
}

func mapSQLiteCode(src sqlite3.Error) Code {
	switch src.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return UniqueViolation
	case sqlite3.ErrConstraintNotNull:
		return NotNullViolation
	case sqlite3.ErrConstraintCheck:
		return CheckViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	}
	if src.Code == sqlite3.ErrTooBig {
		return StringDataRightTruncation
	}
	return Other
}

// parseSQLiteConstraintTarget extracts "table" and "column" from
// "<KIND> constraint failed: table.column".
func parseSQLiteConstraintTarget(message string) (string, string) {
	_, target, found := strings.Cut(message, "constraint failed: ")
	if !found {
		return "", ""
	}
	// Composite constraints list several columns; the first one names the entity.
	target, _, _ = strings.Cut(target, ",")
	table, column, found := strings.Cut(strings.TrimSpace(target), ".")
	if !found {
		return "", ""
	}
	return table, column
}
