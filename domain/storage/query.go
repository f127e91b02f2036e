// Package storage provides store query primitives shared by all domain stores.
package storage

import "fmt"

// Option applies a modification to a Query.
type Option func(Query) Query

// Query holds conditions, ordering, and pagination for store lookups.
type Query struct {
	conditions []Condition
	orders     []Order
	limit      int
	offset     int
}

// Build creates a Query from a set of options.
func Build(options ...Option) Query {
	q := Query{}
	for _, opt := range options {
		q = opt(q)
	}
	return q
}

// Conditions returns the query conditions.
func (q Query) Conditions() []Condition {
	result := make([]Condition, len(q.conditions))
	copy(result, q.conditions)
	return result
}

// Orders returns the query ordering specifications.
func (q Query) Orders() []Order {
	result := make([]Order, len(q.orders))
	copy(result, q.orders)
	return result
}

// LimitValue returns the limit (0 means no limit).
func (q Query) LimitValue() int {
	return q.limit
}

// OffsetValue returns the offset.
func (q Query) OffsetValue() int {
	return q.offset
}

// conditionKind distinguishes equality, IN, and raw SQL conditions.
type conditionKind int

const (
	condEqual conditionKind = iota
	condIn
	condRaw
)

// Condition represents a single query condition.
type Condition struct {
	kind  conditionKind
	field string
	value any
	raw   string
	args  []any
}

// Field returns the condition field name (empty for raw conditions).
func (c Condition) Field() string { return c.field }

// Value returns the condition value.
func (c Condition) Value() any { return c.value }

// In returns true if this is an IN condition (value is a slice).
func (c Condition) In() bool { return c.kind == condIn }

// Raw returns the raw SQL fragment and its arguments, if any.
func (c Condition) Raw() (string, []any) { return c.raw, c.args }

// IsRaw returns true if this is a raw SQL condition.
func (c Condition) IsRaw() bool { return c.kind == condRaw }

// String returns a readable representation.
func (c Condition) String() string {
	switch c.kind {
	case condIn:
		return fmt.Sprintf("%s IN %v", c.field, c.value)
	case condRaw:
		return fmt.Sprintf("%s %v", c.raw, c.args)
	default:
		return fmt.Sprintf("%s = %v", c.field, c.value)
	}
}

// Order represents a sort specification.
type Order struct {
	field     string
	ascending bool
}

// Field returns the order field name.
func (o Order) Field() string { return o.field }

// Ascending returns true for ascending order.
func (o Order) Ascending() bool { return o.ascending }
