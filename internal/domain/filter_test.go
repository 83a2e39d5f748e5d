package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilters(t *testing.T) {
	tests := []struct {
		name        string
		entity      EntityKind
		filters     []FilterSpec
		wantErr     error
		wantSortKey string
		wantPreds   []Predicate
	}{
		{
			name:      "no filters",
			entity:    EntityConference,
			filters:   nil,
			wantPreds: []Predicate{},
		},
		{
			name:   "equality on city keeps no sort key",
			entity: EntityConference,
			filters: []FilterSpec{
				{Field: "CITY", Operator: "EQ", Value: "London"},
			},
			wantPreds: []Predicate{{Attr: AttrCity, Op: OpEQ, Value: "London"}},
		},
		{
			name:   "month is coerced to int and becomes sort key",
			entity: EntityConference,
			filters: []FilterSpec{
				{Field: "MONTH", Operator: "GT", Value: "6"},
				{Field: "CITY", Operator: "=", Value: "Paris"},
			},
			wantSortKey: "month",
			wantPreds: []Predicate{
				{Attr: AttrMonth, Op: OpGT, Value: 6},
				{Attr: AttrCity, Op: OpEQ, Value: "Paris"},
			},
		},
		{
			name:   "range on the same field is allowed",
			entity: EntityConference,
			filters: []FilterSpec{
				{Field: "MAX_ATTENDEES", Operator: "GTEQ", Value: "10"},
				{Field: "MAX_ATTENDEES", Operator: "LT", Value: "100"},
			},
			wantSortKey: "max_attendees",
			wantPreds: []Predicate{
				{Attr: AttrMaxAttendees, Op: OpGTE, Value: 10},
				{Attr: AttrMaxAttendees, Op: OpLT, Value: 100},
			},
		},
		{
			name:   "inequality on two fields",
			entity: EntityConference,
			filters: []FilterSpec{
				{Field: "MONTH", Operator: "GT", Value: "1"},
				{Field: "MAX_ATTENDEES", Operator: "GT", Value: "5"},
			},
			wantErr: ErrMultipleInequalityFields,
		},
		{
			name:   "not equal counts as inequality",
			entity: EntityConference,
			filters: []FilterSpec{
				{Field: "CITY", Operator: "NE", Value: "Rome"},
				{Field: "MONTH", Operator: "LTEQ", Value: "3"},
			},
			wantErr: ErrMultipleInequalityFields,
		},
		{
			name:    "unknown field",
			entity:  EntityConference,
			filters: []FilterSpec{{Field: "COLOR", Operator: "EQ", Value: "red"}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "speaker field is not a conference field",
			entity:  EntityConference,
			filters: []FilterSpec{{Field: "COMPANY", Operator: "EQ", Value: "Acme"}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "unknown operator",
			entity:  EntityConference,
			filters: []FilterSpec{{Field: "CITY", Operator: "LIKE", Value: "Lon%"}},
			wantErr: ErrInvalidFilter,
		},
		{
			name:    "non numeric month",
			entity:  EntityConference,
			filters: []FilterSpec{{Field: "MONTH", Operator: "EQ", Value: "june"}},
			wantErr: ErrInvalidFilterValue,
		},
		{
			name:   "speaker vocabulary",
			entity: EntitySpeaker,
			filters: []FilterSpec{
				{Field: "company", Operator: "eq", Value: "Acme"},
				{Field: "FIELD", Operator: "EQ", Value: "Go"},
			},
			wantPreds: []Predicate{
				{Attr: AttrCompany, Op: OpEQ, Value: "Acme"},
				{Attr: AttrSpeakerField, Op: OpEQ, Value: "Go"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := CompileFilters(tt.entity, tt.filters)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, plan)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.entity, plan.Entity)
			assert.Equal(t, tt.wantPreds, plan.Predicates)
			if tt.wantSortKey == "" {
				assert.Nil(t, plan.SortKey)
			} else {
				require.NotNil(t, plan.SortKey)
				assert.Equal(t, tt.wantSortKey, plan.SortKey.Name)
			}
		})
	}
}

func TestCompileFilters_Deterministic(t *testing.T) {
	filters := []FilterSpec{
		{Field: "TOPIC", Operator: "EQ", Value: "Go"},
		{Field: "MONTH", Operator: "GTEQ", Value: "3"},
	}
	a, err := CompileFilters(EntityConference, filters)
	require.NoError(t, err)
	b, err := CompileFilters(EntityConference, filters)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPredicate_Match(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		v    any
		want bool
	}{
		{"string eq", Predicate{Attr: AttrCity, Op: OpEQ, Value: "Oslo"}, "Oslo", true},
		{"string ne", Predicate{Attr: AttrCity, Op: OpNE, Value: "Oslo"}, "Oslo", false},
		{"int gt", Predicate{Attr: AttrMonth, Op: OpGT, Value: 4}, 5, true},
		{"int lte boundary", Predicate{Attr: AttrMaxAttendees, Op: OpLTE, Value: 10}, 10, true},
		{"int lt", Predicate{Attr: AttrMaxAttendees, Op: OpLT, Value: 10}, 10, false},
		{"list contains", Predicate{Attr: AttrTopics, Op: OpEQ, Value: "Go"}, []string{"Rust", "Go"}, true},
		{"list missing", Predicate{Attr: AttrTopics, Op: OpEQ, Value: "Go"}, []string{"Rust"}, false},
		{"list ne", Predicate{Attr: AttrTopics, Op: OpNE, Value: "Go"}, []string{"Rust"}, true},
		{"list ne present", Predicate{Attr: AttrTopics, Op: OpNE, Value: "Go"}, []string{"Go"}, false},
		{"list any greater", Predicate{Attr: AttrTopics, Op: OpGT, Value: "M"}, []string{"A", "Z"}, true},
		{"empty list eq", Predicate{Attr: AttrTopics, Op: OpEQ, Value: "Go"}, []string{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred.Match(tt.v))
		})
	}
}

func TestCompareValues(t *testing.T) {
	assert.Equal(t, -1, CompareValues(1, 2))
	assert.Equal(t, 1, CompareValues("b", "a"))
	assert.Equal(t, 0, CompareValues([]string{"b", "a"}, []string{"a"}))
	assert.Equal(t, -1, CompareValues([]string{}, []string{"a"}))
	assert.Equal(t, 1, CompareValues([]string{"c"}, []string{}))
}
