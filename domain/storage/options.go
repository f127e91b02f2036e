package storage

// WithCondition adds an equality condition on the given column.
func WithCondition(field string, value any) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{kind: condEqual, field: field, value: value})
		return q
	}
}

// WithConditionIn adds an IN condition on the given column.
func WithConditionIn(field string, values any) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{kind: condIn, field: field, value: values})
		return q
	}
}

// WithWhere adds a raw SQL condition with positional arguments.
func WithWhere(sql string, args ...any) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{kind: condRaw, raw: sql, args: args})
		return q
	}
}

// WithOrderAsc adds an ascending sort on the given column.
func WithOrderAsc(field string) Option {
	return func(q Query) Query {
		q.orders = append(q.orders, Order{field: field, ascending: true})
		return q
	}
}

// WithOrderDesc adds a descending sort on the given column.
func WithOrderDesc(field string) Option {
	return func(q Query) Query {
		q.orders = append(q.orders, Order{field: field, ascending: false})
		return q
	}
}

// WithLimit limits the number of results.
func WithLimit(limit int) Option {
	return func(q Query) Query {
		q.limit = limit
		return q
	}
}

// WithPagination applies limit and offset together.
func WithPagination(limit, offset int) []Option {
	return []Option{
		WithLimit(limit),
		func(q Query) Query {
			q.offset = offset
			return q
		},
	}
}
