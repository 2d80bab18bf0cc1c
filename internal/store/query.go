package store

import (
	"fmt"
	"strings"
)

const recordColumns = "id, user_name, sujet, date_conversation, conversation"

// buildListQuery renders the SELECT and COUNT statements for a filter. Both
// share the same WHERE clause; limit and offset apply only to the SELECT.
func buildListQuery(f ListFilter) (selectSQL string, selectArgs []any, countSQL string, countArgs []any) {
	var (
		where []string
		args  []any
	)

	if f.Subject != nil {
		args = append(args, strings.ToLower(*f.Subject))
		where = append(where, fmt.Sprintf("LOWER(sujet) = $%d", len(args)))
	}
	if f.Day != nil {
		args = append(args, f.Day.UTC().Format("2006-01-02"))
		where = append(where, fmt.Sprintf("DATE(date_conversation AT TIME ZONE 'UTC') = $%d::date", len(args)))
	}
	if f.UserName != nil {
		args = append(args, "%"+strings.ToLower(*f.UserName)+"%")
		where = append(where, fmt.Sprintf("LOWER(user_name) LIKE $%d", len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	countSQL = "SELECT COUNT(*) FROM conversations" + whereSQL
	countArgs = args

	selectSQL = fmt.Sprintf(
		"SELECT %s FROM conversations%s ORDER BY date_conversation DESC, id DESC LIMIT $%d OFFSET $%d",
		recordColumns, whereSQL, len(args)+1, len(args)+2,
	)
	selectArgs = append(append([]any{}, args...), f.Limit, f.Offset)
	return selectSQL, selectArgs, countSQL, countArgs
}
