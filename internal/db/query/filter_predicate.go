package query

import "strings"

// FilterPredicate builds a parameterized WHERE clause. Values never end up in
// the SQL text; column names must come from code, not from requests.
type FilterPredicate struct {
	predicate strings.Builder
	args      []interface{}
}

func NewFilterPredicate() *FilterPredicate {
	return &FilterPredicate{}
}

func (fp *FilterPredicate) Open() *FilterPredicate {
	fp.predicate.WriteString("(")
	return fp
}

func (fp *FilterPredicate) Close() *FilterPredicate {
	fp.predicate.WriteString(")")
	return fp
}

// And joins with AND unless the predicate is still empty.
func (fp *FilterPredicate) And() *FilterPredicate {
	if fp.needsJoin() {
		fp.predicate.WriteString(" AND ")
	}
	return fp
}

func (fp *FilterPredicate) Or() *FilterPredicate {
	if fp.needsJoin() {
		fp.predicate.WriteString(" OR ")
	}
	return fp
}

func (fp *FilterPredicate) Not() *FilterPredicate {
	fp.predicate.WriteString("NOT ")
	return fp
}

func (fp *FilterPredicate) Equal(column string, value interface{}) *FilterPredicate {
	return fp.op(column, "=", value)
}

func (fp *FilterPredicate) NotEqual(column string, value interface{}) *FilterPredicate {
	return fp.op(column, "<>", value)
}

func (fp *FilterPredicate) GreaterThan(column string, value interface{}) *FilterPredicate {
	return fp.op(column, ">", value)
}

func (fp *FilterPredicate) LessThan(column string, value interface{}) *FilterPredicate {
	return fp.op(column, "<", value)
}

func (fp *FilterPredicate) Between(column string, v1, v2 interface{}) *FilterPredicate {
	fp.predicate.WriteString(column + " BETWEEN ? AND ?")
	fp.args = append(fp.args, v1, v2)
	return fp
}

func (fp *FilterPredicate) In(column string, values ...interface{}) *FilterPredicate {
	fp.predicate.WriteString(column + " IN ?")
	fp.args = append(fp.args, values)
	return fp
}

// Like is a case-insensitive substring match.
func (fp *FilterPredicate) Like(column, pattern string) *FilterPredicate {
	fp.predicate.WriteString("LOWER(" + column + ") LIKE ?")
	fp.args = append(fp.args, "%"+strings.ToLower(pattern)+"%")
	return fp
}

// Empty reports whether no condition has been added.
func (fp *FilterPredicate) Empty() bool {
	return fp == nil || fp.predicate.Len() == 0
}

// Build returns the clause and its bind arguments. A nil predicate builds "".
func (fp *FilterPredicate) Build() (string, []interface{}) {
	if fp == nil {
		return "", nil
	}
	return fp.predicate.String(), fp.args
}

func (fp *FilterPredicate) op(column, op string, value interface{}) *FilterPredicate {
	fp.predicate.WriteString(column + " " + op + " ?")
	fp.args = append(fp.args, value)
	return fp
}

func (fp *FilterPredicate) needsJoin() bool {
	s := fp.predicate.String()
	return s != "" && !strings.HasSuffix(s, "(") && !strings.HasSuffix(s, "NOT ")
}
