package storage

import (
	"strconv"
	"strings"
)

// dialect adapts '?' placeholder queries to the target database.
type dialect struct {
	name         string
	dollarParams bool
}

var (
	sqliteDialect   = dialect{name: DriverSQLite}
	postgresDialect = dialect{name: DriverPostgres, dollarParams: true}
)

// rebind rewrites '?' placeholders to $1, $2, ... for PostgreSQL.
// Queries in this package never contain literal question marks.
func (d dialect) rebind(query string) string {
	if !d.dollarParams {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
