// Package events publishes record change events after successful mutations.
package events

import (
	"context"
	"time"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Change struct {
	Table  string    `json:"table"`
	Action Action    `json:"action"`
	IDs    []int64   `json:"ids"`
	At     time.Time `json:"at"`
}

// RoutingKey is "<table>.<action>".
func (c Change) RoutingKey() string {
	return c.Table + "." + string(c.Action)
}

type Publisher interface {
	PublishChange(ctx context.Context, change Change) error
}

// Nop drops every change.
type Nop struct{}

func (Nop) PublishChange(context.Context, Change) error { return nil }
