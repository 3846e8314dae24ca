package blogservice

import "strings"

// sortColumns is the allow-list of sortable fields. Anything outside it
// falls back to newest first rather than passing caller input into the
// query.
var sortColumns = map[string]string{
	"createdAt": "b.created_at",
	"title":     "b.title",
	"views":     "b.views",
	"readTime":  "b.read_time",
	"likes":     "(SELECT COUNT(*) FROM blog_likes bl WHERE bl.blog_id = b.id)",
	"comments":  "(SELECT COUNT(*) FROM comments c WHERE c.blog_id = b.id)",
}

const defaultSort = "b.created_at DESC"

// sortClause turns a "field:direction" pair into an ORDER BY expression.
func sortClause(spec string) string {
	field, direction, _ := strings.Cut(spec, ":")

	column, ok := sortColumns[field]
	if !ok {
		return defaultSort
	}

	if strings.EqualFold(direction, "asc") {
		return column + " ASC"
	}
	return column + " DESC"
}
