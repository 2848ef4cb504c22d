package gam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

func TestComposeQueryAndInactivity(t *testing.T) {
	f, err := Compose(FilterCriteria{Query: "givenname:John", InactiveDays: 90}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "givenname:John lastLoginTime<2024-03-03", f.Query)
	assert.Empty(t, f.OrgUnit)
	assert.Nil(t, f.Suspended)
}

func TestComposeEmptyCriteria(t *testing.T) {
	f, err := Compose(FilterCriteria{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, Filter{}, f)
}

func TestComposeOrgUnitScope(t *testing.T) {
	f, err := Compose(FilterCriteria{OrgUnit: "/Sales"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "/Sales", f.OrgUnit)
	assert.Empty(t, f.Query)

	f, err = Compose(FilterCriteria{OrgUnit: "/Sales", IncludeChildren: true, Query: "isAdmin=false"}, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, f.OrgUnit)
	assert.Equal(t, "isAdmin=false orgUnitPath='/Sales'", f.Query)
}

func TestComposeSuspendedWinsOverActiveOnly(t *testing.T) {
	f, err := Compose(FilterCriteria{Suspended: boolPtr(true), ActiveOnly: true}, fixedNow)
	require.NoError(t, err)
	require.NotNil(t, f.Suspended)
	assert.True(t, *f.Suspended)

	f, err = Compose(FilterCriteria{ActiveOnly: true}, fixedNow)
	require.NoError(t, err)
	require.NotNil(t, f.Suspended)
	assert.False(t, *f.Suspended)
}

func TestComposeRejectsBadInput(t *testing.T) {
	_, err := Compose(FilterCriteria{InactiveDays: -1}, fixedNow)
	assert.True(t, IsValidationError(err))

	_, err = Compose(FilterCriteria{OrgUnit: "Sales"}, fixedNow)
	assert.True(t, IsValidationError(err))
}

func TestInactivityPredicateCrossesYear(t *testing.T) {
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "lastLoginTime<2023-12-16", InactivityPredicate(30, now))
}
