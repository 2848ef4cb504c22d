package gam

import (
	"fmt"
	"strings"
	"time"
)

// cutoffLayout is the date format the directory query language accepts for
// lastLoginTime comparisons.
const cutoffLayout = "2006-01-02"

// FilterCriteria are the independent, optional user-listing predicates.
type FilterCriteria struct {
	// Suspended selects only suspended (true) or only active (false) users.
	Suspended *bool `json:"suspended"`
	// ActiveOnly is shorthand for Suspended=false. Suspended wins when both are set.
	ActiveOnly bool `json:"active_only"`
	// OrgUnit restricts results to an organizational unit path.
	OrgUnit string `json:"org_unit"`
	// IncludeChildren selects the recursive form of the OrgUnit restriction.
	IncludeChildren bool `json:"include_children"`
	// Query is a caller-supplied directory query expression.
	Query string `json:"query"`
	// InactiveDays selects users whose last login is older than this many days.
	InactiveDays int `json:"inactive_days"`
}

// Filter is the composed result: a query expression plus the hard scope and
// status clauses that GAM takes as separate options.
type Filter struct {
	Query     string
	OrgUnit   string
	Suspended *bool
}

// Compose combines criteria into one query expression.
//
// Clauses are joined with a single space, which the directory query language
// treats as AND. Order is caller query, recursive OU predicate, inactivity
// predicate. A non-recursive OU restriction becomes the hard scope clause
// instead of a predicate.
func Compose(c FilterCriteria, now time.Time) (Filter, error) {
	var f Filter
	clauses := make([]string, 0, 3)

	if q := strings.TrimSpace(c.Query); q != "" {
		clauses = append(clauses, q)
	}

	ou, err := optionalOrgUnit("org_unit", c.OrgUnit)
	if err != nil {
		return Filter{}, err
	}
	if ou != "" {
		if c.IncludeChildren {
			clauses = append(clauses, orgUnitPredicate(ou))
		} else {
			f.OrgUnit = ou
		}
	}

	if c.InactiveDays < 0 {
		return Filter{}, invalid("inactive_days", "inactive_days must not be negative (got %d)", c.InactiveDays)
	}
	if c.InactiveDays > 0 {
		clauses = append(clauses, InactivityPredicate(c.InactiveDays, now))
	}

	switch {
	case c.Suspended != nil:
		s := *c.Suspended
		f.Suspended = &s
	case c.ActiveOnly:
		s := false
		f.Suspended = &s
	}

	f.Query = strings.Join(clauses, " ")
	return f, nil
}

// InactivityPredicate returns "lastLoginTime<YYYY-MM-DD" for the cutoff that
// lies days before now.
func InactivityPredicate(days int, now time.Time) string {
	cutoff := now.AddDate(0, 0, -days)
	return fmt.Sprintf("lastLoginTime<%s", cutoff.Format(cutoffLayout))
}

func orgUnitPredicate(path string) string {
	return fmt.Sprintf("orgUnitPath='%s'", strings.ReplaceAll(path, "'", `\'`))
}
