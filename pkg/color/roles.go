package color

import "strings"

// Role is a semantic category of output, independent of concrete colors.
type Role int

const (
	Error Role = iota
	Success
	Warning
	Notice
	SQLField
	SQLColtype
	SQLKeyword
	SQLTable
	HTTPInfo
	HTTPSuccess
	HTTPRedirect
	HTTPNotModified
	HTTPBadRequest
	HTTPNotFound
	HTTPServerError
	MigrateHeading
	MigrateLabel

	roleCount
)

var roleNames = [roleCount]string{
	Error:           "ERROR",
	Success:         "SUCCESS",
	Warning:         "WARNING",
	Notice:          "NOTICE",
	SQLField:        "SQL_FIELD",
	SQLColtype:      "SQL_COLTYPE",
	SQLKeyword:      "SQL_KEYWORD",
	SQLTable:        "SQL_TABLE",
	HTTPInfo:        "HTTP_INFO",
	HTTPSuccess:     "HTTP_SUCCESS",
	HTTPRedirect:    "HTTP_REDIRECT",
	HTTPNotModified: "HTTP_NOT_MODIFIED",
	HTTPBadRequest:  "HTTP_BAD_REQUEST",
	HTTPNotFound:    "HTTP_NOT_FOUND",
	HTTPServerError: "HTTP_SERVER_ERROR",
	MigrateHeading:  "MIGRATE_HEADING",
	MigrateLabel:    "MIGRATE_LABEL",
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return "UNKNOWN"
	}
	return roleNames[r]
}

// Roles returns every role in declaration order.
func Roles() []Role {
	roles := make([]Role, roleCount)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}

// ParseRole looks a role up by name, case-insensitively.
func ParseRole(name string) (Role, bool) {
	upper := strings.ToUpper(name)
	for i, n := range roleNames {
		if n == upper {
			return Role(i), true
		}
	}
	return 0, false
}
