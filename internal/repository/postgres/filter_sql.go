package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

// Filterable columns per entity, keyed by domain attribute name.
var (
	conferenceFilterColumns = map[string]string{
		"name":          "name",
		"city":          "city",
		"topics":        "topics",
		"month":         "month",
		"max_attendees": "max_attendees",
	}
	speakerFilterColumns = map[string]string{
		"name":    "name",
		"company": "company",
		"sex":     "sex",
		"field":   "field",
	}
)

// buildFilterSQL translates a query plan into a WHERE clause (without the keyword, "TRUE" when
// empty), an ORDER BY list, and positional args. idColumn is the final tie-break column.
func buildFilterSQL(plan *domain.QueryPlan, columns map[string]string, idColumn string) (string, string, []any, error) {
	var (
		conds []string
		args  []any
	)
	for _, p := range plan.Predicates {
		col, ok := columns[p.Attr.Name]
		if !ok {
			return "", "", nil, fmt.Errorf("%w: attribute %q is not filterable", domain.ErrInvalidFilter, p.Attr.Name)
		}
		args = append(args, p.Value)
		ph := fmt.Sprintf("$%d", len(args))
		switch {
		case p.Attr.Kind != domain.AttrStringList:
			conds = append(conds, fmt.Sprintf("%s %s %s", col, p.Op.Symbol(), ph))
		case p.Op == domain.OpEQ:
			conds = append(conds, fmt.Sprintf("%s = ANY(%s)", ph, col))
		case p.Op == domain.OpNE:
			conds = append(conds, fmt.Sprintf("NOT (%s = ANY(%s))", ph, col))
		default:
			conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS v WHERE v %s %s)", col, p.Op.Symbol(), ph))
		}
	}
	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	order := []string{}
	if plan.SortKey != nil {
		col, ok := columns[plan.SortKey.Name]
		if !ok {
			return "", "", nil, fmt.Errorf("%w: attribute %q is not sortable", domain.ErrInvalidFilter, plan.SortKey.Name)
		}
		switch plan.SortKey.Kind {
		case domain.AttrStringList:
			order = append(order, fmt.Sprintf("(SELECT min(v %s) FROM unnest(%s) AS v) ASC NULLS FIRST", byteCollation, col))
		case domain.AttrString:
			order = append(order, collated(col)+" ASC")
		default:
			order = append(order, col+" ASC")
		}
	}
	order = append(order, collated("name")+" ASC", collated(idColumn)+" ASC")
	return where, strings.Join(order, ", "), args, nil
}

// byteCollation orders text by raw bytes, the same order the in-memory store uses.
const byteCollation = `COLLATE "C"`

// nameOrder is the default listing order for conferences and sessions.
var nameOrder = collated("name") + ", " + collated("id")

func collated(col string) string {
	return col + " " + byteCollation
}

// stringArray wraps a list argument for lib/pq.
func stringArray(values []string) any {
	if values == nil {
		values = []string{}
	}
	return pq.Array(values)
}
