package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern turns a user-supplied search needle into a LIKE pattern
// for the lowercase *_ci columns: lowercased, with LIKE metacharacters
// escaped, wrapped in wildcards.
func searchPattern(needle string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(needle)) + "%"
}
