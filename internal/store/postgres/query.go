package postgres

import (
	"fmt"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// listQuery appends the optional time window, newest-first ordering and
// pagination from opts to base. base must already contain a WHERE clause;
// args are the arguments base itself uses.
func listQuery(base, timeCol string, opts domain.ListOpts, args ...any) (string, []any) {
	query := base
	next := len(args) + 1

	if opts.Since != nil {
		query += fmt.Sprintf(" AND %s >= $%d", timeCol, next)
		args = append(args, *opts.Since)
		next++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND %s <= $%d", timeCol, next)
		args = append(args, *opts.Until)
		next++
	}

	query += " ORDER BY " + timeCol + " DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", next)
		args = append(args, opts.Limit)
		next++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", next)
		args = append(args, opts.Offset)
	}
	return query, args
}
