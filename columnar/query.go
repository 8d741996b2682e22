package columnar

import "bytes"

// CompareOp is a column-vs-literal comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpIsNull
	OpIsNotNull
	OpContains
	OpNotContains
	OpIn
	OpNotIn
)

// Predicate is the algebraic sum of a comparison and the boolean
// combinators And/Or/Not/True/False. Exactly one of the fields below is
// meaningful for a given Predicate, selected by Op/Kind.
type Predicate struct {
	kind predicateKind

	// comparison fields
	field   string
	op      CompareOp
	literal []byte
	// set is the literal set for OpIn/OpNotIn, represented as a real set of
	// byte strings rather than a single value.
	set [][]byte

	// combinator fields
	operands []*Predicate
}

type predicateKind int

const (
	predicateCompare predicateKind = iota
	predicateAnd
	predicateOr
	predicateNot
	predicateTrue
	predicateFalse
)

// Compare builds a comparison predicate against field using op and literal.
// literal is ignored for OpIsNull/OpIsNotNull.
func Compare(field string, op CompareOp, literal []byte) *Predicate {
	return &Predicate{kind: predicateCompare, field: field, op: op, literal: literal}
}

// In builds a membership predicate: field's value must equal one of set.
func In(field string, set [][]byte) *Predicate {
	return &Predicate{kind: predicateCompare, field: field, op: OpIn, set: set}
}

// NotIn builds a non-membership predicate.
func NotIn(field string, set [][]byte) *Predicate {
	return &Predicate{kind: predicateCompare, field: field, op: OpNotIn, set: set}
}

// And builds a conjunction of operands.
func And(operands ...*Predicate) *Predicate {
	return &Predicate{kind: predicateAnd, operands: operands}
}

// Or builds a disjunction of operands.
func Or(operands ...*Predicate) *Predicate {
	return &Predicate{kind: predicateOr, operands: operands}
}

// Not negates operand.
func Not(operand *Predicate) *Predicate {
	return &Predicate{kind: predicateNot, operands: []*Predicate{operand}}
}

// True is the constant predicate that matches every row.
func True() *Predicate {
	return &Predicate{kind: predicateTrue}
}

// False is the constant predicate that matches no row.
func False() *Predicate {
	return &Predicate{kind: predicateFalse}
}

// Eval evaluates the predicate against a single row of t.
func (p *Predicate) Eval(t *Table, row uint64) (bool, error) {
	switch p.kind {
	case predicateTrue:
		return true, nil
	case predicateFalse:
		return false, nil
	case predicateAnd:
		for _, operand := range p.operands {
			ok, err := operand.Eval(t, row)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case predicateOr:
		for _, operand := range p.operands {
			ok, err := operand.Eval(t, row)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case predicateNot:
		ok, err := p.operands[0].Eval(t, row)
		if err != nil {
			return false, err
		}
		return !ok, nil
	default:
		return p.evalCompare(t, row)
	}
}

func (p *Predicate) evalCompare(t *Table, row uint64) (bool, error) {
	col, err := t.Column(p.field)
	if err != nil {
		// An unknown column makes the comparison unsatisfiable for this
		// row rather than aborting the whole query.
		return false, nil
	}

	value, isNull, err := col.GetBytes(row)
	if err != nil {
		return false, err
	}

	switch p.op {
	case OpIsNull:
		return isNull, nil
	case OpIsNotNull:
		return !isNull, nil
	}
	if isNull {
		return false, nil
	}

	switch p.op {
	case OpEq:
		return bytes.Equal(value, p.literal), nil
	case OpNe:
		return !bytes.Equal(value, p.literal), nil
	case OpLt:
		return bytes.Compare(value, p.literal) < 0, nil
	case OpLe:
		return bytes.Compare(value, p.literal) <= 0, nil
	case OpGt:
		return bytes.Compare(value, p.literal) > 0, nil
	case OpGe:
		return bytes.Compare(value, p.literal) >= 0, nil
	case OpContains:
		return bytes.Contains(value, p.literal), nil
	case OpNotContains:
		return !bytes.Contains(value, p.literal), nil
	case OpIn:
		return memberOf(value, p.set), nil
	case OpNotIn:
		return !memberOf(value, p.set), nil
	default:
		return false, newError(ErrInvalidArgument, "eval_compare", nil)
	}
}

func memberOf(value []byte, set [][]byte) bool {
	for _, candidate := range set {
		if bytes.Equal(value, candidate) {
			return true
		}
	}
	return false
}

// Query builds and executes a select over a table: a predicate filter,
// an offset and a limit applied in that order.
type Query struct {
	table    *Table
	filter   *Predicate
	offset   uint64
	limit    uint64
	limitSet bool
	fields   []string
}

// NewQuery returns a Query over t that matches every row by default.
func NewQuery(t *Table) *Query {
	return &Query{table: t, filter: True()}
}

// Select restricts which field values are returned by Execute. An empty
// selection (the default) returns every field in schema order.
func (q *Query) Select(fields ...string) *Query {
	q.fields = fields
	return q
}

// Filter sets the predicate rows must satisfy to be included.
func (q *Query) Filter(p *Predicate) *Query {
	q.filter = p
	return q
}

// Offset skips the first n matching rows.
func (q *Query) Offset(n uint64) *Query {
	q.offset = n
	return q
}

// Limit caps the number of rows returned. If Limit is never called, the
// result is unbounded. Limit(0) is a deliberate cap of zero rows, not
// "unlimited" — it returns an empty result.
func (q *Query) Limit(n uint64) *Query {
	q.limit = n
	q.limitSet = true
	return q
}

// Row is one result row: field name to raw borrowed bytes (nil if null).
type Row map[string]RowValue

// RowValue is a single cell of a query result.
type RowValue struct {
	Bytes  []byte
	IsNull bool
}

// Execute runs the query and returns matching rows.
func (q *Query) Execute() ([]Row, error) {
	fields := q.fields
	if len(fields) == 0 {
		fields = make([]string, q.table.Schema.Len())
		for i, f := range q.table.Schema.Fields {
			fields[i] = f.Name
		}
	}

	var results []Row
	var skipped uint64
	var taken uint64

	if q.limitSet && q.limit == 0 {
		return results, nil
	}

	for row := uint64(0); row < q.table.RowCount; row++ {
		ok, err := q.filter.Eval(q.table, row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if skipped < q.offset {
			skipped++
			continue
		}
		if q.limitSet && taken >= q.limit {
			break
		}

		out := make(Row, len(fields))
		for _, name := range fields {
			col, err := q.table.Column(name)
			if err != nil {
				return nil, err
			}
			value, isNull, err := col.GetBytes(row)
			if err != nil {
				return nil, err
			}
			out[name] = RowValue{Bytes: value, IsNull: isNull}
		}
		results = append(results, out)
		taken++
	}

	return results, nil
}
