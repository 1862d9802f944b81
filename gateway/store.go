package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const idField = "Id"

// Store implements Gateway on a SQL database through gorm. It serves local
// development and integration tests with the same query semantics as the
// hosted gateway.
type Store struct {
	db     *gorm.DB
	tables map[string]tableModel
	order  []string
}

var _ Gateway = (*Store)(nil)

// rejection is a business failure: the call completed but the store refused it.
type rejection struct {
	msg string
}

func (r *rejection) Error() string { return r.msg }

func reject(format string, args ...any) error {
	return &rejection{msg: fmt.Sprintf(format, args...)}
}

func NewStore(db *gorm.DB) *Store {
	s := &Store{
		db:     db,
		tables: make(map[string]tableModel),
	}
	for _, m := range defaultTables() {
		s.tables[m.name] = m
		s.order = append(s.order, m.name)
	}
	return s
}

// AutoMigrate creates or updates every record table.
func (s *Store) AutoMigrate() error {
	for _, name := range s.order {
		if err := s.db.AutoMigrate(s.tables[name].newOne()); err != nil {
			return fmt.Errorf("migrate %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) table(name string) (tableModel, error) {
	m, ok := s.tables[name]
	if !ok {
		return tableModel{}, fmt.Errorf("unknown table %q", name)
	}
	return m, nil
}

func (s *Store) FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error) {
	m, err := s.table(table)
	if err != nil {
		return nil, err
	}

	where, err := m.whereExpression(q.WhereGroups)
	if err != nil {
		return &FetchResponse{Success: false, Message: err.Error()}, nil
	}

	base := s.db.WithContext(ctx).Model(m.newOne())
	if where != nil {
		base = base.Clauses(clause.Where{Exprs: []clause.Expression{where}})
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}

	find := base
	for _, ob := range q.OrderBy {
		if !m.hasField(ob.Field) {
			return &FetchResponse{Success: false, Message: fmt.Sprintf("unknown sort field %q", ob.Field)}, nil
		}
		find = find.Order(clause.OrderByColumn{
			Column: clause.Column{Name: ob.Field},
			Desc:   strings.EqualFold(string(ob.Direction), string(DirectionDesc)),
		})
	}
	if q.PagingInfo != nil {
		if q.PagingInfo.Limit > 0 {
			find = find.Limit(q.PagingInfo.Limit)
		}
		if q.PagingInfo.Offset > 0 {
			find = find.Offset(q.PagingInfo.Offset)
		}
	}

	dest := m.newSlice()
	if err := find.Find(dest).Error; err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}

	records, err := toRecords(dest)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i] = project(records[i], q.Fields)
	}

	return &FetchResponse{Success: true, Data: records, TotalCount: int(total)}, nil
}

func (s *Store) GetRecordByID(ctx context.Context, table string, id int64, fields []Field) (*RecordResponse, error) {
	m, err := s.table(table)
	if err != nil {
		return nil, err
	}

	dest := m.newOne()
	err = s.db.WithContext(ctx).Clauses(whereID(id)).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &RecordResponse{Success: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", table, id, err)
	}

	rec, err := toRecord(dest)
	if err != nil {
		return nil, err
	}
	return &RecordResponse{Success: true, Data: project(rec, fields)}, nil
}

func (s *Store) CreateRecord(ctx context.Context, table string, records []Record) (*WriteResponse, error) {
	m, err := s.table(table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &WriteResponse{Success: false, Message: "no records to create"}, nil
	}

	results := make([]WriteResult, len(records))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, rec := range records {
			row, err := m.decode(rec, false)
			if err != nil {
				return err
			}
			if v, ok := row.(rowValidator); ok {
				if err := v.validate(); err != nil {
					return reject("record %d: %v", i+1, err)
				}
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			data, err := toRecord(row)
			if err != nil {
				return err
			}
			results[i] = WriteResult{Success: true, Data: data}
		}
		return nil
	})

	return finishWrite(table, "create", results, err)
}

func (s *Store) UpdateRecord(ctx context.Context, table string, records []Record) (*WriteResponse, error) {
	m, err := s.table(table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &WriteResponse{Success: false, Message: "no records to update"}, nil
	}

	results := make([]WriteResult, len(records))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, rec := range records {
			id, ok := recordID(rec)
			if !ok {
				return reject("record %d: Id is required", i+1)
			}
			row, err := m.decode(rec, true)
			if err != nil {
				return err
			}

			cols := make([]string, 0, len(rec))
			for key := range rec {
				if key != idField {
					cols = append(cols, key)
				}
			}
			if len(cols) > 0 {
				res := tx.Model(row).Select(cols).Updates(row)
				if res.Error != nil {
					return res.Error
				}
			}

			fresh := m.newOne()
			if err := tx.Clauses(whereID(id)).Take(fresh).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return reject("record %d not found", id)
				}
				return err
			}
			if v, ok := fresh.(rowValidator); ok {
				if err := v.validate(); err != nil {
					return reject("record %d: %v", id, err)
				}
			}
			data, err := toRecord(fresh)
			if err != nil {
				return err
			}
			results[i] = WriteResult{Success: true, Data: data}
		}
		return nil
	})

	return finishWrite(table, "update", results, err)
}

func (s *Store) DeleteRecord(ctx context.Context, table string, ids []int64) (*WriteResponse, error) {
	m, err := s.table(table)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &WriteResponse{Success: false, Message: "no record ids given"}, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.Where{Exprs: []clause.Expression{
			clause.IN{Column: clause.Column{Name: idField}, Values: values},
		}}).
		Delete(m.newOne())
	if res.Error != nil {
		return nil, fmt.Errorf("delete %s: %w", table, res.Error)
	}
	if res.RowsAffected == 0 {
		return &WriteResponse{Success: false, Message: "no matching records"}, nil
	}

	results := make([]WriteResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, WriteResult{Success: true, Data: Record{idField: id}})
	}
	return &WriteResponse{
		Success: true,
		Message: fmt.Sprintf("%d records deleted", res.RowsAffected),
		Results: results,
	}, nil
}

func finishWrite(table, op string, results []WriteResult, err error) (*WriteResponse, error) {
	var rej *rejection
	if errors.As(err, &rej) {
		return &WriteResponse{Success: false, Message: rej.msg}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, table, err)
	}
	return &WriteResponse{Success: true, Results: results}, nil
}

// decode turns a record into a row. Unknown fields and malformed values are
// rejections. Id is dropped on create.
func (m tableModel) decode(rec Record, keepID bool) (any, error) {
	clean := make(Record, len(rec))
	for key, val := range rec {
		if !m.hasField(key) {
			return nil, reject("unknown field %q", key)
		}
		if key == idField && !keepID {
			continue
		}
		clean[key] = val
	}

	row := m.newOne()
	data, err := json.Marshal(clean)
	if err != nil {
		return nil, reject("invalid record: %v", err)
	}
	if err := json.Unmarshal(data, row); err != nil {
		return nil, reject("invalid record: %v", err)
	}
	return row, nil
}

func (m tableModel) whereExpression(groups []WhereGroup) (clause.Expression, error) {
	var exprs []clause.Expression
	for _, g := range groups {
		var subs []clause.Expression
		for _, sg := range g.SubGroups {
			var conds []clause.Expression
			for _, c := range sg.Conditions {
				expr, err := m.conditionExpression(c)
				if err != nil {
					return nil, err
				}
				if expr != nil {
					conds = append(conds, expr)
				}
			}
			if e := combine(sg.Operator, conds); e != nil {
				subs = append(subs, e)
			}
		}
		if e := combine(g.Operator, subs); e != nil {
			exprs = append(exprs, e)
		}
	}
	if len(exprs) == 0 {
		return nil, nil
	}
	return clause.And(exprs...), nil
}

func (m tableModel) conditionExpression(c Condition) (clause.Expression, error) {
	if !m.hasField(c.FieldName) {
		return nil, fmt.Errorf("unknown filter field %q", c.FieldName)
	}
	if len(c.Values) == 0 {
		return nil, nil
	}
	col := clause.Column{Name: c.FieldName}

	switch c.Operator {
	case OperatorExactMatch:
		if len(c.Values) == 1 {
			return clause.Eq{Column: col, Value: c.Values[0]}, nil
		}
		return clause.IN{Column: col, Values: c.Values}, nil
	case OperatorContains:
		likes := make([]clause.Expression, 0, len(c.Values))
		for _, v := range c.Values {
			pattern := "%" + strings.ToLower(fmt.Sprint(v)) + "%"
			likes = append(likes, clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []any{col, pattern}})
		}
		if len(likes) == 1 {
			return likes[0], nil
		}
		return clause.Or(likes...), nil
	default:
		return nil, fmt.Errorf("unsupported operator %q", c.Operator)
	}
}

func combine(op string, exprs []clause.Expression) clause.Expression {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	if strings.EqualFold(op, "OR") {
		return clause.Or(exprs...)
	}
	return clause.And(exprs...)
}

func whereID(id int64) clause.Where {
	return clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Name: idField}, Value: id},
	}}
}

func recordID(rec Record) (int64, bool) {
	switch v := rec[idField].(type) {
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case float64:
		return int64(v), v > 0
	case json.Number:
		n, err := v.Int64()
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}

func toRecord(row any) (Record, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func toRecords(rows any) ([]Record, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// project keeps the requested fields plus Id. No fields means everything.
func project(rec Record, fields []Field) Record {
	if len(fields) == 0 || rec == nil {
		return rec
	}
	out := Record{idField: rec[idField]}
	for _, f := range fields {
		if v, ok := rec[f.Field.Name]; ok {
			out[f.Field.Name] = v
		}
	}
	return out
}
