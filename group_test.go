package dashgrid

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupBy(t *testing.T) {
	records := []Record{
		{"id": 1, "category": "revenue"},
		{"id": 2, "category": "risk"},
		{"id": 3},
		{"id": 4, "category": "revenue"},
		{"id": 5, "category": "  "},
	}

	groups := GroupBy(records, "category", GroupOptions{})
	if diff := cmp.Diff([]string{"revenue", "risk", FallbackGroupLabel}, Labels(groups)); diff != "" {
		t.Errorf("Unexpected labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "4"}, ids(groups[0].Records)); diff != "" {
		t.Errorf("Unexpected revenue bucket (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"3", "5"}, ids(groups[2].Records)); diff != "" {
		t.Errorf("Unexpected fallback bucket (-want +got):\n%s", diff)
	}

	groups = GroupBy(records, "category", GroupOptions{FallbackLabel: "Other"})
	if groups[2].Label != "Other" {
		t.Errorf("Expected custom fallback label, got %q", groups[2].Label)
	}
}

func TestGroupByNone(t *testing.T) {
	records := sampleTasks()
	for _, key := range []string{"", GroupNone} {
		groups := GroupBy(records, key, GroupOptions{DefaultLabel: "Tasks"})
		if len(groups) != 1 || groups[0].Label != "Tasks" {
			t.Fatalf("key %q: expected one group labeled Tasks, got %v", key, Labels(groups))
		}
		if len(groups[0].Records) != len(records) {
			t.Errorf("key %q: expected %d records, got %d", key, len(records), len(groups[0].Records))
		}
	}

	if got := GroupBy(records, GroupNone, GroupOptions{})[0].Label; got != DefaultGroupLabel {
		t.Errorf("Expected default label %q, got %q", DefaultGroupLabel, got)
	}
}

// Grouping never loses or duplicates a record.
func TestGroupByPartitionComplete(t *testing.T) {
	filtered := ApplyColumnFilters(ApplySearch(sampleTasks(), "e", taskColumns), map[string]string{"title": "e"})

	for _, key := range []string{"status", "priority", "due", "estimate", "nope", GroupNone} {
		got := ids(FlattenGroups(GroupBy(filtered, key, GroupOptions{})))
		want := ids(filtered)
		sort.Strings(got)
		sort.Strings(want)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("key %s: buckets are not a permutation of the input (-want +got):\n%s", key, diff)
		}
	}
}

func TestOrderGroupKeys(t *testing.T) {
	keys := []string{"low", "x-unknown", "critical", "a-unknown", "high"}
	got := OrderGroupKeys(keys, RankComparator(PriorityRanking, true))
	if diff := cmp.Diff([]string{"critical", "high", "low", "a-unknown", "x-unknown"}, got); diff != "" {
		t.Errorf("Priority order (-want +got):\n%s", diff)
	}

	keys = []string{"done", "todo", "review", "blocked", "In-Progress"}
	got = OrderGroupKeys(keys, RankComparator(WorkflowRanking, false))
	if diff := cmp.Diff([]string{"todo", "In-Progress", "review", "done", "blocked"}, got); diff != "" {
		t.Errorf("Workflow order (-want +got):\n%s", diff)
	}

	got = OrderGroupKeys([]string{"b", "C", "a"}, nil)
	if diff := cmp.Diff([]string{"C", "a", "b"}, got); diff != "" {
		t.Errorf("Lexicographic fallback (-want +got):\n%s", diff)
	}

	if keys[0] != "done" {
		t.Errorf("OrderGroupKeys modified its input")
	}
}

func TestSortGroupsKeepsBucketOrder(t *testing.T) {
	sorted := ApplySort(sampleTasks(), "estimate", SortDesc, nil)
	groups := SortGroups(GroupBy(sorted, "status", GroupOptions{}), RankComparator(WorkflowRanking, false))

	// todo bucket: estimate 5 (id 1) before the record without one (id 5)
	if diff := cmp.Diff([]string{"1", "5"}, ids(groups[0].Records)); diff != "" {
		t.Errorf("Bucket lost sort order (-want +got):\n%s", diff)
	}
}
