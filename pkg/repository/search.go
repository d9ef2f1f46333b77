package repository

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPredicate matches rows where any of fields contains term,
// ignoring case. LIKE wildcards in term are matched literally.
func searchPredicate(term string, fields []string) (string, []interface{}, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"

	or := make(sq.Or, 0, len(fields))
	for _, f := range fields {
		or = append(or, sq.Expr("LOWER("+quote(f)+`) LIKE ? ESCAPE '\'`, pattern))
	}
	return or.ToSql()
}
