package repository

import (
	"errors"
	"fmt"
	"strings"

	"marma_admin/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
)

// whereBuilder collects AND-ed conditions with numbered placeholders.
// Each condition is a format string whose %d verbs receive the next
// placeholder numbers, one per value.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(cond string, values ...interface{}) {
	nums := make([]interface{}, len(values))
	for i := range values {
		nums[i] = len(w.args) + i + 1
	}
	w.conds = append(w.conds, fmt.Sprintf(cond, nums...))
	w.args = append(w.args, values...)
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limitOffset appends pagination placeholders and returns the clause and full arg list.
func (w *whereBuilder) limitOffset(limit, offset int) (string, []interface{}) {
	n := len(w.args)
	args := append(append([]interface{}{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(term) + "%"
}

func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func conflict(msg string) error {
	return common.NewError(common.ErrConflict, msg)
}
