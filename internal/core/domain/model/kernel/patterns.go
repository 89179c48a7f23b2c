package kernel

import "regexp"

// Lexical rules shared by the schema, order, and workflow models.
// These are part of the configuration surface: field identifiers, history
// dates, and email values are all checked against them.
var (
	// identifierPattern matches field identifiers, tag parts, and status
	// identifiers: a letter followed by letters, digits, or underscores.
	identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

	// datePattern matches ISO calendar dates as stored in order history.
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// emailPattern is the deliberately loose local@domain.tld shape used
	// for email-typed field values.
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// DateLayout is the time.Format layout corresponding to the date pattern.
const DateLayout = "2006-01-02"

// IsIdentifier reports whether s is a valid identifier.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// IsDate reports whether s is a YYYY-MM-DD calendar date string.
func IsDate(s string) bool {
	return datePattern.MatchString(s)
}

// IsEmail reports whether s has the local@domain.tld shape accepted for
// email field values.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
