package gateway

import (
	"context"
	"fmt"
)

// Table names known to the record gateway.
const (
	TableMenuItem      = "menu_item"
	TableOrder         = "order1"
	TableOrderItem     = "order_item"
	TableInventoryItem = "inventory_item"
)

// Gateway is the generic record store every resource goes through. A returned
// error means the call itself failed; a response with Success=false is a
// completed call that the store rejected.
type Gateway interface {
	FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error)
	GetRecordByID(ctx context.Context, table string, id int64, fields []Field) (*RecordResponse, error)
	CreateRecord(ctx context.Context, table string, records []Record) (*WriteResponse, error)
	UpdateRecord(ctx context.Context, table string, records []Record) (*WriteResponse, error)
	DeleteRecord(ctx context.Context, table string, ids []int64) (*WriteResponse, error)
}

type FetchResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message,omitempty"`
	Data       []Record `json:"data"`
	TotalCount int      `json:"totalCount"`
}

type RecordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Record `json:"data"`
}

type WriteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Record `json:"data,omitempty"`
}

type WriteResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Results []WriteResult `json:"results"`
}

// Failed returns the per-record failures of a write.
func (r *WriteResponse) Failed() []WriteResult {
	var out []WriteResult
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

// Error is a non-2xx answer from the remote gateway.
type Error struct {
	Op         string
	Table      string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s %s: status %d: %s", e.Op, e.Table, e.StatusCode, e.Body)
}
