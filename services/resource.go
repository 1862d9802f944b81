package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-backoffice/events"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/notify"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// Page is one page of a list plus the total number of matching records.
type Page[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
}

// WriteResult is the outcome of a create or update that reached the gateway.
// Success=false with Error set is a business rejection, not a failure of the
// call.
type WriteResult[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Record  *T     `json:"data,omitempty"`
	Records []T    `json:"records,omitempty"`
}

// messages holds the user-facing wording for one resource.
type messages struct {
	singular string // "Menu item"
	plural   string // "menu items"
	created  string // verb used after create, "created" or "added"
	deleted  string // verb used after delete, "deleted" or "removed"
	createOp string // verb used in the create failure, "create" or "add"
	deleteOp string
}

func (m messages) lower() string {
	return strings.ToLower(m.singular)
}

type validator interface {
	Validate() error
}

// resource is the shared access logic behind every typed service.
type resource[T any] struct {
	gw        gateway.Gateway
	notifier  notify.Notifier
	publisher events.Publisher

	table        string
	fields       []gateway.Field
	defaultLimit int
	defaultOrder []gateway.OrderBy
	msg          messages
	decode       func(gateway.Record) (T, error)
	encode       func(T) gateway.Record
	id           func(T) int64
}

func (r *resource[T]) log(op string) *logrus.Entry {
	return utils.ErrorLogger.WithFields(logrus.Fields{"table": r.table, "op": op})
}

// withDefaults fills in projection, paging and order the caller left out.
func (r *resource[T]) withDefaults(q gateway.Query) gateway.Query {
	q = q.Clone()
	if len(q.Fields) == 0 {
		q.Fields = r.fields
	}
	if q.PagingInfo == nil {
		q.PagingInfo = &gateway.PagingInfo{Limit: r.defaultLimit, Offset: 0}
	}
	if len(q.OrderBy) == 0 {
		q.OrderBy = append([]gateway.OrderBy(nil), r.defaultOrder...)
	}
	return q
}

// List returns one page. An empty result is not an error.
func (r *resource[T]) List(ctx context.Context, q gateway.Query) (Page[T], error) {
	failMsg := "Failed to load " + r.msg.plural

	resp, err := r.gw.FetchRecords(ctx, r.table, r.withDefaults(q))
	if err == nil && resp != nil && !resp.Success {
		err = errors.New(resp.Message)
	}
	if err != nil {
		r.log("list").Errorf("Error fetching %s: %v", r.msg.plural, err)
		notify.Error(ctx, r.notifier, failMsg)
		return Page[T]{}, &GatewayError{Op: "list", Table: r.table, Message: failMsg, Err: err}
	}

	page := Page[T]{Data: []T{}}
	if resp == nil {
		notify.Info(ctx, r.notifier, fmt.Sprintf("No %s found", r.msg.plural))
		return page, nil
	}
	if len(resp.Data) == 0 {
		// halaman di luar jangkauan tetap membawa total dari gateway
		page.TotalCount = resp.TotalCount
		notify.Info(ctx, r.notifier, fmt.Sprintf("No %s found", r.msg.plural))
		return page, nil
	}

	for _, rec := range resp.Data {
		item, err := r.decode(rec)
		if err != nil {
			r.log("list").Errorf("Malformed %s record: %v", r.msg.lower(), err)
			notify.Error(ctx, r.notifier, failMsg)
			return Page[T]{}, &GatewayError{Op: "decode", Table: r.table, Message: failMsg, Err: err}
		}
		page.Data = append(page.Data, item)
	}

	page.TotalCount = resp.TotalCount
	if page.TotalCount == 0 {
		page.TotalCount = len(page.Data)
	}

	notify.Info(ctx, r.notifier, fmt.Sprintf("Loaded %d of %d %s", len(page.Data), page.TotalCount, r.msg.plural))
	return page, nil
}

// GetByID returns nil without an error when the gateway has no such record.
func (r *resource[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	failMsg := fmt.Sprintf("Failed to load %s details", r.msg.lower())

	resp, err := r.gw.GetRecordByID(ctx, r.table, id, r.fields)
	if err != nil {
		r.log("get").Errorf("Error fetching %s with ID %d: %v", r.msg.lower(), id, err)
		notify.Error(ctx, r.notifier, failMsg)
		return nil, &GatewayError{Op: "get", Table: r.table, Message: failMsg, Err: err}
	}

	if resp == nil || resp.Data == nil {
		notify.Error(ctx, r.notifier, r.msg.singular+" not found")
		return nil, nil
	}

	item, err := r.decode(resp.Data)
	if err != nil {
		r.log("get").Errorf("Malformed %s record %d: %v", r.msg.lower(), id, err)
		notify.Error(ctx, r.notifier, failMsg)
		return nil, &GatewayError{Op: "decode", Table: r.table, Message: failMsg, Err: err}
	}

	notify.Info(ctx, r.notifier, fmt.Sprintf("Loaded %s #%d", r.msg.lower(), id))
	return &item, nil
}

// Create sends one or many entities in a single gateway call.
func (r *resource[T]) Create(ctx context.Context, items ...T) (WriteResult[T], error) {
	failMsg := fmt.Sprintf("Failed to %s %s", r.msg.createOp, r.msg.lower())

	if len(items) == 0 {
		notify.Error(ctx, r.notifier, failMsg)
		return WriteResult[T]{}, ErrNoRecords
	}

	records := make([]gateway.Record, 0, len(items))
	for _, item := range items {
		if err := validate(item); err != nil {
			notify.Error(ctx, r.notifier, failMsg)
			return WriteResult[T]{}, err
		}
		rec := r.encode(item)
		delete(rec, "Id")
		records = append(records, rec)
	}

	resp, err := r.gw.CreateRecord(ctx, r.table, records)
	return r.finishWrite(ctx, "create", events.ActionCreate, failMsg,
		fmt.Sprintf("%s %s successfully", r.msg.singular, r.msg.created), resp, err)
}

// Update requires an Id and fails locally without one.
func (r *resource[T]) Update(ctx context.Context, item T) (WriteResult[T], error) {
	failMsg := fmt.Sprintf("Failed to update %s", r.msg.lower())

	if r.id(item) == 0 {
		notify.Error(ctx, r.notifier, failMsg)
		return WriteResult[T]{}, fmt.Errorf("%s: %w", r.msg.lower(), ErrMissingID)
	}
	if err := validate(item); err != nil {
		notify.Error(ctx, r.notifier, failMsg)
		return WriteResult[T]{}, err
	}

	return r.updateRecord(ctx, r.encode(item))
}

// updateRecord sends a partial record. The caller guarantees an Id.
func (r *resource[T]) updateRecord(ctx context.Context, rec gateway.Record) (WriteResult[T], error) {
	failMsg := fmt.Sprintf("Failed to update %s", r.msg.lower())

	resp, err := r.gw.UpdateRecord(ctx, r.table, []gateway.Record{rec})
	return r.finishWrite(ctx, "update", events.ActionUpdate, failMsg,
		r.msg.singular+" updated successfully", resp, err)
}

// Delete removes one or many records and reports whether the gateway
// accepted the request.
func (r *resource[T]) Delete(ctx context.Context, ids ...int64) (bool, error) {
	failMsg := fmt.Sprintf("Failed to %s %s", r.msg.deleteOp, r.msg.lower())

	if len(ids) == 0 {
		notify.Error(ctx, r.notifier, failMsg)
		return false, ErrNoRecords
	}

	resp, err := r.gw.DeleteRecord(ctx, r.table, ids)
	if err != nil {
		r.log("delete").Errorf("Error deleting %s %v: %v", r.msg.plural, ids, err)
		notify.Error(ctx, r.notifier, failMsg)
		return false, &GatewayError{Op: "delete", Table: r.table, Message: failMsg, Err: err}
	}

	if resp == nil || !resp.Success {
		reason := "Unknown error"
		if resp != nil && resp.Message != "" {
			reason = resp.Message
		}
		r.log("delete").Warnf("Delete of %s %v rejected: %s", r.msg.plural, ids, reason)
		notify.Error(ctx, r.notifier, failMsg)
		return false, nil
	}

	notify.Success(ctx, r.notifier, fmt.Sprintf("%s %s successfully", r.msg.singular, r.msg.deleted))
	r.publish(ctx, events.ActionDelete, ids)
	return true, nil
}

func (r *resource[T]) finishWrite(ctx context.Context, op string, action events.Action, failMsg, okMsg string, resp *gateway.WriteResponse, err error) (WriteResult[T], error) {
	if err != nil {
		r.log(op).Errorf("Error during %s of %s: %v", op, r.msg.lower(), err)
		notify.Error(ctx, r.notifier, failMsg)
		return WriteResult[T]{}, &GatewayError{Op: op, Table: r.table, Message: failMsg, Err: err}
	}

	if resp == nil || !resp.Success || len(resp.Failed()) > 0 {
		reason := rejectionReason(resp)
		r.log(op).Warnf("%s of %s rejected: %s", op, r.msg.lower(), reason)
		notify.Error(ctx, r.notifier, failMsg)
		return WriteResult[T]{Success: false, Error: reason}, nil
	}

	result := WriteResult[T]{Success: true}
	var ids []int64
	for _, res := range resp.Results {
		if res.Data == nil {
			continue
		}
		item, err := r.decode(res.Data)
		if err != nil {
			// the write happened; only the echo is unreadable
			r.log(op).Errorf("Malformed %s record in %s response: %v", r.msg.lower(), op, err)
			continue
		}
		result.Records = append(result.Records, item)
		ids = append(ids, r.id(item))
	}
	if len(result.Records) > 0 {
		first := result.Records[0]
		result.Record = &first
	}

	notify.Success(ctx, r.notifier, okMsg)
	r.publish(ctx, action, ids)
	return result, nil
}

func (r *resource[T]) publish(ctx context.Context, action events.Action, ids []int64) {
	if r.publisher == nil {
		return
	}
	change := events.Change{Table: r.table, Action: action, IDs: ids, At: time.Now().UTC()}
	if err := r.publisher.PublishChange(ctx, change); err != nil {
		r.log(string(action)).Errorf("Error publishing change: %v", err)
	}
}

func rejectionReason(resp *gateway.WriteResponse) string {
	if resp == nil {
		return "Unknown error"
	}
	if resp.Message != "" {
		return resp.Message
	}
	for _, res := range resp.Failed() {
		if res.Message != "" {
			return res.Message
		}
	}
	return "Unknown error"
}

func validate(item any) error {
	if v, ok := item.(validator); ok {
		return v.Validate()
	}
	return nil
}
