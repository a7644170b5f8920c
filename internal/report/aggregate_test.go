package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-report/internal/domain"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func entry(name string, hours float64) domain.TimeEntry {
	return domain.TimeEntry{
		Employee: name,
		Start:    base,
		End:      base.Add(time.Duration(hours * float64(time.Hour))),
	}
}

func TestAggregate_Scenario(t *testing.T) {
	got := Aggregate([]domain.TimeEntry{entry("Alice", 2), entry("Bob", 1)}, Options{})

	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.InDelta(t, 2.0, got[0].TotalHours, 1e-9)
	assert.Equal(t, "Bob", got[1].Name)
	assert.InDelta(t, 1.0, got[1].TotalHours, 1e-9)
}

func TestAggregate_GroupsAndSums(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("Alice", 1.5),
		entry("Bob", 3),
		entry("Alice", 2.25),
		entry("", 10),
		entry("alice", 0.5),
	}
	got := Aggregate(entries, Options{})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"Alice", "Bob", "alice"}, names(got))
	assert.InDelta(t, 3.75, got[0].TotalHours, 1e-9)

	var included float64
	for _, e := range entries {
		if e.Employee != "" {
			included += e.WorkedSeconds()
		}
	}
	assert.InDelta(t, included/3600, Sum(got), 1e-9)
}

func TestAggregate_ExcludesBlankEmployee(t *testing.T) {
	got := Aggregate([]domain.TimeEntry{entry("", 5), entry("", 2)}, Options{})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestAggregate_EmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil, Options{}))
	assert.Empty(t, Aggregate([]domain.TimeEntry{}, Options{PositiveOnly: true}))
}

func TestAggregate_StableOnTies(t *testing.T) {
	entries := []domain.TimeEntry{
		entry("Carol", 1),
		entry("Dave", 4),
		entry("Alice", 1),
		entry("Bob", 1),
	}
	got := Aggregate(entries, Options{})

	assert.Equal(t, []string{"Dave", "Carol", "Alice", "Bob"}, names(got))
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalHours, got[i].TotalHours)
	}
}

func TestAggregate_PositiveOnly(t *testing.T) {
	inverted := domain.TimeEntry{Employee: "Eve", Start: base.Add(time.Hour), End: base}
	entries := []domain.TimeEntry{entry("Alice", 2), inverted, entry("Zed", 0)}

	all := Aggregate(entries, Options{})
	assert.Equal(t, []string{"Alice", "Zed", "Eve"}, names(all))
	assert.InDelta(t, -1.0, all[2].TotalHours, 1e-9)

	positive := Aggregate(entries, Options{PositiveOnly: true})
	assert.Equal(t, []string{"Alice"}, names(positive))
}

func names(totals []domain.EmployeeTotal) []string {
	out := make([]string, 0, len(totals))
	for _, t := range totals {
		out = append(out, t.Name)
	}
	return out
}
