package repository

import "strings"

// isUniqueViolation reports whether err is a unique-constraint violation,
// matched by message text so it covers pgx server errors and the mocked pool
// alike. Used to map duplicate employee codes onto the taxonomy.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "unique") ||
		strings.Contains(errMsg, "duplicate key")
}
