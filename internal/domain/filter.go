package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// EntityKind selects which field vocabulary a filter list is compiled against.
type EntityKind int

const (
	EntityConference EntityKind = iota + 1
	EntitySpeaker
)

func (e EntityKind) String() string {
	switch e {
	case EntityConference:
		return "conference"
	case EntitySpeaker:
		return "speaker"
	default:
		return "unknown"
	}
}

// FilterSpec is one caller supplied (field, operator, value) triple.
type FilterSpec struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// AttrKind is the storage type of a filterable attribute.
type AttrKind int

const (
	AttrString AttrKind = iota + 1
	AttrInt
	AttrStringList
)

// Attribute is a store level field that filters and sorts can reference.
type Attribute struct {
	Name string
	Kind AttrKind
}

var (
	AttrConferenceName = Attribute{Name: "name", Kind: AttrString}
	AttrCity           = Attribute{Name: "city", Kind: AttrString}
	AttrTopics         = Attribute{Name: "topics", Kind: AttrStringList}
	AttrMonth          = Attribute{Name: "month", Kind: AttrInt}
	AttrMaxAttendees   = Attribute{Name: "max_attendees", Kind: AttrInt}

	AttrSpeakerName  = Attribute{Name: "name", Kind: AttrString}
	AttrCompany      = Attribute{Name: "company", Kind: AttrString}
	AttrSex          = Attribute{Name: "sex", Kind: AttrString}
	AttrSpeakerField = Attribute{Name: "field", Kind: AttrStringList}
)

var filterFields = map[EntityKind]map[string]Attribute{
	EntityConference: {
		"CITY":          AttrCity,
		"TOPIC":         AttrTopics,
		"MONTH":         AttrMonth,
		"MAX_ATTENDEES": AttrMaxAttendees,
	},
	EntitySpeaker: {
		"NAME":    AttrSpeakerName,
		"COMPANY": AttrCompany,
		"SEX":     AttrSex,
		"FIELD":   AttrSpeakerField,
	},
}

// Operator is a comparison in the closed filter vocabulary.
type Operator int

const (
	OpEQ Operator = iota + 1
	OpNE
	OpGT
	OpGTE
	OpLT
	OpLTE
)

var operatorNames = map[string]Operator{
	"EQ": OpEQ, "=": OpEQ,
	"NE": OpNE, "!=": OpNE,
	"GT": OpGT, ">": OpGT,
	"GTEQ": OpGTE, ">=": OpGTE,
	"LT": OpLT, "<": OpLT,
	"LTEQ": OpLTE, "<=": OpLTE,
}

// ParseOperator accepts either the operator name (EQ, GTEQ, ...) or its symbol.
func ParseOperator(s string) (Operator, error) {
	op, ok := operatorNames[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, s)
	}
	return op, nil
}

// Symbol returns the comparison symbol, suitable for SQL.
func (o Operator) Symbol() string {
	switch o {
	case OpEQ:
		return "="
	case OpNE:
		return "!="
	case OpGT:
		return ">"
	case OpGTE:
		return ">="
	case OpLT:
		return "<"
	case OpLTE:
		return "<="
	default:
		return "?"
	}
}

// IsInequality reports whether o is anything other than equality.
func (o Operator) IsInequality() bool {
	return o != OpEQ
}

func (o Operator) holds(c int) bool {
	switch o {
	case OpEQ:
		return c == 0
	case OpNE:
		return c != 0
	case OpGT:
		return c > 0
	case OpGTE:
		return c >= 0
	case OpLT:
		return c < 0
	case OpLTE:
		return c <= 0
	default:
		return false
	}
}

// Predicate is a validated filter. Value is an int for AttrInt attributes and a string otherwise.
type Predicate struct {
	Attr  Attribute
	Op    Operator
	Value any
}

// Match reports whether v, the entity's value for p.Attr, satisfies the predicate.
// A list matches when any element satisfies it; NE on a list means no element equals the value.
func (p Predicate) Match(v any) bool {
	switch p.Attr.Kind {
	case AttrStringList:
		list, _ := v.([]string)
		want, _ := p.Value.(string)
		if p.Op == OpNE {
			return !slices.Contains(list, want)
		}
		for _, el := range list {
			if p.Op.holds(strings.Compare(el, want)) {
				return true
			}
		}
		return false
	default:
		return p.Op.holds(CompareValues(v, p.Value))
	}
}

// QueryPlan is the compiled form of a filter list. Results are ordered by SortKey (if set),
// then by name, then by id, all ascending.
type QueryPlan struct {
	Entity     EntityKind
	Predicates []Predicate
	SortKey    *Attribute
}

// CompileFilters validates filters against the vocabulary of entity and builds a query plan.
func CompileFilters(entity EntityKind, filters []FilterSpec) (*QueryPlan, error) {
	fields, ok := filterFields[entity]
	if !ok {
		return nil, fmt.Errorf("%w: unknown entity %d", ErrInvalidFilter, entity)
	}
	plan := &QueryPlan{Entity: entity, Predicates: make([]Predicate, 0, len(filters))}
	for _, f := range filters {
		attr, ok := fields[strings.ToUpper(strings.TrimSpace(f.Field))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q for %s", ErrInvalidFilter, f.Field, entity)
		}
		op, err := ParseOperator(f.Operator)
		if err != nil {
			return nil, err
		}
		var value any = f.Value
		if attr.Kind == AttrInt {
			n, err := strconv.Atoi(strings.TrimSpace(f.Value))
			if err != nil {
				return nil, fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidFilterValue, f.Field, f.Value)
			}
			value = n
		}
		if op.IsInequality() {
			if plan.SortKey != nil && plan.SortKey.Name != attr.Name {
				return nil, ErrMultipleInequalityFields
			}
			a := attr
			plan.SortKey = &a
		}
		plan.Predicates = append(plan.Predicates, Predicate{Attr: attr, Op: op, Value: value})
	}
	return plan, nil
}

// CompareValues orders two attribute values of the same kind. Lists compare by their least
// element, and an empty list sorts first.
func CompareValues(a, b any) int {
	switch av := a.(type) {
	case int:
		bv, _ := b.(int)
		return cmp.Compare(av, bv)
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case []string:
		bv, _ := b.([]string)
		switch {
		case len(av) == 0 && len(bv) == 0:
			return 0
		case len(av) == 0:
			return -1
		case len(bv) == 0:
			return 1
		}
		return strings.Compare(slices.Min(av), slices.Min(bv))
	default:
		return 0
	}
}
