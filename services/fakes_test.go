package services

import (
	"context"
	"sync"

	"github.com/yeremiapane/restaurant-backoffice/events"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/notify"
)

type fakeGateway struct {
	mu sync.Mutex

	fetchResp *gateway.FetchResponse
	getResp   *gateway.RecordResponse
	writeResp *gateway.WriteResponse
	err       error

	calls       []string
	lastTable   string
	lastQuery   gateway.Query
	lastRecords []gateway.Record
	lastIDs     []int64
}

func (f *fakeGateway) record(op, table string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	f.lastTable = table
}

func (f *fakeGateway) FetchRecords(_ context.Context, table string, q gateway.Query) (*gateway.FetchResponse, error) {
	f.record("fetch", table)
	f.lastQuery = q
	return f.fetchResp, f.err
}

func (f *fakeGateway) GetRecordByID(_ context.Context, table string, id int64, _ []gateway.Field) (*gateway.RecordResponse, error) {
	f.record("get", table)
	f.lastIDs = []int64{id}
	return f.getResp, f.err
}

func (f *fakeGateway) CreateRecord(_ context.Context, table string, records []gateway.Record) (*gateway.WriteResponse, error) {
	f.record("create", table)
	f.lastRecords = records
	return f.writeResp, f.err
}

func (f *fakeGateway) UpdateRecord(_ context.Context, table string, records []gateway.Record) (*gateway.WriteResponse, error) {
	f.record("update", table)
	f.lastRecords = records
	return f.writeResp, f.err
}

func (f *fakeGateway) DeleteRecord(_ context.Context, table string, ids []int64) (*gateway.WriteResponse, error) {
	f.record("delete", table)
	f.lastIDs = ids
	return f.writeResp, f.err
}

type notifications struct {
	mu   sync.Mutex
	seen []notify.Notification
}

func (n *notifications) Notify(_ context.Context, note notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, note)
}

func (n *notifications) byLevel(level notify.Level) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, note := range n.seen {
		if note.Level == level {
			out = append(out, note.Message)
		}
	}
	return out
}

type publishedChanges struct {
	changes []events.Change
}

func (p *publishedChanges) PublishChange(_ context.Context, c events.Change) error {
	p.changes = append(p.changes, c)
	return nil
}

func newDeps(gw *fakeGateway) (Deps, *notifications, *publishedChanges) {
	n := &notifications{}
	p := &publishedChanges{}
	return Deps{Gateway: gw, Notifier: n, Publisher: p}, n, p
}
