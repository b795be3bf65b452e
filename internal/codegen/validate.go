package codegen

import (
	"fmt"

	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// RelationshipErrors reports a relationship of owner that does not originate
// from owner, references tables or columns missing from the diagram, or uses an
// unknown referential action.
func RelationshipErrors(tables []models.Table, owner string, r models.Relationship) []string {
	if r.FromTable != owner {
		return []string{fmt.Sprintf("table %s: relationship originates from table %q", owner, r.FromTable)}
	}

	var errs []string
	desc := fmt.Sprintf("relationship %s.%s -> %s.%s", r.FromTable, r.FromColumn, r.ToTable, r.ToColumn)

	from, ok := models.FindTable(tables, r.FromTable)
	if !ok {
		errs = append(errs, fmt.Sprintf("%s: unknown table %q", desc, r.FromTable))
	} else if _, ok := from.Column(r.FromColumn); !ok {
		errs = append(errs, fmt.Sprintf("%s: unknown column %q", desc, r.FromColumn))
	}

	to, ok := models.FindTable(tables, r.ToTable)
	if !ok {
		errs = append(errs, fmt.Sprintf("%s: unknown table %q", desc, r.ToTable))
	} else if _, ok := to.Column(r.ToColumn); !ok {
		errs = append(errs, fmt.Sprintf("%s: unknown column %q", desc, r.ToColumn))
	}

	if !models.IsReferentialAction(r.OnDelete) {
		errs = append(errs, fmt.Sprintf("%s: invalid onDelete action %q", desc, r.OnDelete))
	}
	if !models.IsReferentialAction(r.OnUpdate) {
		errs = append(errs, fmt.Sprintf("%s: invalid onUpdate action %q", desc, r.OnUpdate))
	}
	return errs
}
