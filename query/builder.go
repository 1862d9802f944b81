// Package query turns list-view search and filter state into gateway queries.
package query

import (
	"strings"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
)

const (
	DefaultPageSize = 20
	SearchField     = "Name"
)

type Kind int

const (
	// KindExact matches a scalar value exactly.
	KindExact Kind = iota
	// KindBool takes a "true"/"false" sentinel; anything else means no filter.
	KindBool
	// KindFacet matches when the field contains any of the selected values.
	KindFacet
)

type Filter struct {
	Field  string
	Kind   Kind
	Value  string
	Values []string
}

func Exact(field, value string) Filter {
	return Filter{Field: field, Kind: KindExact, Value: value}
}

func Bool(field, sentinel string) Filter {
	return Filter{Field: field, Kind: KindBool, Value: sentinel}
}

func Facet(field string, values ...string) Filter {
	return Filter{Field: field, Kind: KindFacet, Values: values}
}

// Page is 1-indexed.
type Page struct {
	Number int
	Size   int
}

// Offset of the first row on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) normalized(defaultSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	return p
}

type Request struct {
	Search  string
	Filters []Filter
	Page    Page
	Sort    []gateway.OrderBy
	Fields  []string
	// DefaultSize applies when Page.Size is unset. Zero means DefaultPageSize.
	DefaultSize int
}

var (
	SortByName          = []gateway.OrderBy{{Field: "Name", Direction: gateway.DirectionAsc}}
	SortByOrderDateDesc = []gateway.OrderBy{{Field: "order_date", Direction: gateway.DirectionDesc}}
)

// Build converts a request into a gateway query. The search condition comes
// first, then filters in the order given. With no conditions the query has no
// filter structure at all.
func Build(req Request) gateway.Query {
	var conds []gateway.Condition

	if search := strings.TrimSpace(req.Search); search != "" {
		conds = append(conds, gateway.Condition{
			FieldName: SearchField,
			Operator:  gateway.OperatorContains,
			Values:    []any{search},
		})
	}

	for _, f := range req.Filters {
		if c, ok := f.condition(); ok {
			conds = append(conds, c)
		}
	}

	defaultSize := req.DefaultSize
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	page := req.Page.normalized(defaultSize)

	sort := req.Sort
	if len(sort) == 0 {
		sort = SortByName
	}

	q := gateway.Query{
		PagingInfo: &gateway.PagingInfo{Limit: page.Size, Offset: page.Offset()},
		OrderBy:    append([]gateway.OrderBy(nil), sort...),
	}
	if len(req.Fields) > 0 {
		q.Fields = gateway.Fields(req.Fields...)
	}
	if len(conds) > 0 {
		q.WhereGroups = []gateway.WhereGroup{{
			Operator: gateway.GroupOperatorAnd,
			SubGroups: []gateway.SubGroup{{
				Conditions: conds,
				Operator:   "",
			}},
		}}
	}
	return q
}

func (f Filter) condition() (gateway.Condition, bool) {
	switch f.Kind {
	case KindExact:
		if f.Value == "" {
			return gateway.Condition{}, false
		}
		return gateway.Condition{
			FieldName: f.Field,
			Operator:  gateway.OperatorExactMatch,
			Values:    []any{f.Value},
		}, true

	case KindBool:
		var v bool
		switch f.Value {
		case "true":
			v = true
		case "false":
			v = false
		default:
			return gateway.Condition{}, false
		}
		return gateway.Condition{
			FieldName: f.Field,
			Operator:  gateway.OperatorExactMatch,
			Values:    []any{v},
		}, true

	case KindFacet:
		values := make([]any, 0, len(f.Values))
		for _, v := range f.Values {
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return gateway.Condition{}, false
		}
		return gateway.Condition{
			FieldName: f.Field,
			Operator:  gateway.OperatorContains,
			Values:    values,
		}, true
	}
	return gateway.Condition{}, false
}
