package stores

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func quoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// renderQuery turns q into a parameterized DuckDB statement.
// Identifiers are validated and quoted, every value is bound as an argument.
func renderQuery(q Query) (string, []any, error) {
	table, err := quoteIdentifier(q.Table)
	if err != nil {
		return "", nil, err
	}
	if len(q.GroupBy) == 0 && len(q.Select) == 0 {
		return "", nil, fmt.Errorf("query on %s selects nothing", q.Table)
	}

	var columns []string
	groups := make([]string, 0, len(q.GroupBy))
	for _, g := range q.GroupBy {
		col, err := quoteIdentifier(g)
		if err != nil {
			return "", nil, err
		}
		groups = append(groups, col)
		columns = append(columns, fmt.Sprintf("CAST(%s AS VARCHAR) AS %s", col, col))
	}
	for _, a := range q.Select {
		expr, err := renderAggregation(a)
		if err != nil {
			return "", nil, err
		}
		columns = append(columns, expr)
	}

	var sb strings.Builder
	var args []any
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	if q.Where != nil {
		where, err := renderFilter(q.Where, &args)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if len(groups) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groups, ", "))
	}
	if len(q.OrderBy) > 0 {
		orders := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			col, err := quoteIdentifier(o.Column)
			if err != nil {
				return "", nil, err
			}
			if o.Desc {
				col += " DESC"
			} else {
				col += " ASC"
			}
			orders = append(orders, col)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}
	return sb.String(), args, nil
}

func renderAggregation(a Aggregation) (string, error) {
	alias, err := quoteIdentifier(a.Alias)
	if err != nil {
		return "", err
	}
	switch a.Func {
	case AggCount:
		return fmt.Sprintf("CAST(COUNT(*) AS BIGINT) AS %s", alias), nil
	case AggMax:
		col, err := quoteIdentifier(a.Column)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("CAST(COALESCE(MAX(%s), 0) AS BIGINT) AS %s", col, alias), nil
	case AggCountTrue:
		col, err := quoteIdentifier(a.Column)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("CAST(COALESCE(SUM(CASE WHEN %s THEN 1 ELSE 0 END), 0) AS BIGINT) AS %s", col, alias), nil
	default:
		return "", fmt.Errorf("unknown aggregation %q", a.Func)
	}
}

func renderFilter(f Filter, args *[]any) (string, error) {
	switch f := f.(type) {
	case SinceFilter:
		col, err := quoteIdentifier(f.Column)
		if err != nil {
			return "", err
		}
		*args = append(*args, formatTimestamp(f.Time))
		return col + " >= CAST(? AS TIMESTAMP)", nil
	case AtLeastFilter:
		col, err := quoteIdentifier(f.Column)
		if err != nil {
			return "", err
		}
		*args = append(*args, f.Value)
		return col + " >= ?", nil
	case MatchesFilter:
		col, err := quoteIdentifier(f.Column)
		if err != nil {
			return "", err
		}
		*args = append(*args, f.Pattern)
		return "regexp_matches(" + col + ", ?)", nil
	case AllFilter:
		return renderJunction(f.Filters, " AND ", "TRUE", args)
	case AnyFilter:
		return renderJunction(f.Filters, " OR ", "FALSE", args)
	default:
		return "", fmt.Errorf("unknown filter %T", f)
	}
}

func renderJunction(filters []Filter, op, empty string, args *[]any) (string, error) {
	if len(filters) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		part, err := renderFilter(f, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, op) + ")", nil
}
