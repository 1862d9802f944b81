package gateway

import "encoding/json"

type Operator string

const (
	OperatorExactMatch Operator = "ExactMatch"
	OperatorContains   Operator = "Contains"
)

type Direction string

const (
	DirectionAsc  Direction = "ASC"
	DirectionDesc Direction = "DESC"
)

const GroupOperatorAnd = "AND"

// Record is one row as the gateway sees it, keyed by field name.
type Record map[string]any

type FieldName struct {
	Name string `json:"Name"`
}

type Field struct {
	Field FieldName `json:"Field"`
}

// Fields builds a projection list.
func Fields(names ...string) []Field {
	out := make([]Field, len(names))
	for i, name := range names {
		out[i] = Field{Field: FieldName{Name: name}}
	}
	return out
}

// FieldNames is the inverse of Fields.
func FieldNames(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Field.Name
	}
	return out
}

type PagingInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type OrderBy struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

type Condition struct {
	FieldName string   `json:"FieldName"`
	Operator  Operator `json:"operator"`
	Values    []any    `json:"values"`
}

type SubGroup struct {
	Conditions []Condition `json:"conditions"`
	Operator   string      `json:"operator"`
}

type WhereGroup struct {
	Operator  string     `json:"operator"`
	SubGroups []SubGroup `json:"subGroups"`
}

// Query is the structured fetch request. A nil WhereGroups means "no filter"
// and is left out of the wire form; a non-nil empty slice is sent as [].
type Query struct {
	Fields      []Field      `json:"Fields,omitempty"`
	PagingInfo  *PagingInfo  `json:"pagingInfo,omitempty"`
	OrderBy     []OrderBy    `json:"orderBy,omitempty"`
	WhereGroups []WhereGroup `json:"-"`
}

type queryAlias Query

func (q Query) MarshalJSON() ([]byte, error) {
	wire := struct {
		queryAlias
		WhereGroups *[]WhereGroup `json:"whereGroups,omitempty"`
	}{queryAlias: queryAlias(q)}
	if q.WhereGroups != nil {
		wire.WhereGroups = &q.WhereGroups
	}
	return json.Marshal(wire)
}

func (q *Query) UnmarshalJSON(data []byte) error {
	wire := struct {
		*queryAlias
		WhereGroups *[]WhereGroup `json:"whereGroups"`
	}{queryAlias: (*queryAlias)(q)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	q.WhereGroups = nil
	if wire.WhereGroups != nil {
		q.WhereGroups = *wire.WhereGroups
		if q.WhereGroups == nil {
			q.WhereGroups = []WhereGroup{}
		}
	}
	return nil
}

// HasFilter reports whether the query carries a filter structure at all.
func (q Query) HasFilter() bool {
	return q.WhereGroups != nil
}

// Conditions flattens every condition in the query, in order.
func (q Query) Conditions() []Condition {
	var out []Condition
	for _, g := range q.WhereGroups {
		for _, sg := range g.SubGroups {
			out = append(out, sg.Conditions...)
		}
	}
	return out
}

// Clone returns a deep copy so callers can keep a query without aliasing.
func (q Query) Clone() Query {
	out := Query{
		Fields:  append([]Field(nil), q.Fields...),
		OrderBy: append([]OrderBy(nil), q.OrderBy...),
	}
	if q.PagingInfo != nil {
		p := *q.PagingInfo
		out.PagingInfo = &p
	}
	if q.WhereGroups != nil {
		out.WhereGroups = make([]WhereGroup, len(q.WhereGroups))
		for i, g := range q.WhereGroups {
			sgs := make([]SubGroup, len(g.SubGroups))
			for j, sg := range g.SubGroups {
				conds := make([]Condition, len(sg.Conditions))
				for k, c := range sg.Conditions {
					c.Values = append([]any(nil), c.Values...)
					conds[k] = c
				}
				sgs[j] = SubGroup{Conditions: conds, Operator: sg.Operator}
			}
			out.WhereGroups[i] = WhereGroup{Operator: g.Operator, SubGroups: sgs}
		}
	}
	return out
}
