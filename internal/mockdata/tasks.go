package mockdata

import (
	"math/rand"
	"time"

	"github.com/gnemet/dashgrid"
)

// Task is a project-management work item
type Task struct {
	ID       string
	Title    string
	Status   string
	Priority string
	Assignee string
	Project  string
	DueDate  time.Time // zero when unscheduled
	Estimate float64   // hours
	Progress float64   // fraction in [0,1]
}

// TaskColumns describes the task list and kanban widgets
var TaskColumns = []dashgrid.ColumnDescriptor{
	{Key: "title", Label: "Title", Sortable: true, Filterable: true, Format: dashgrid.FormatText, Width: "30%"},
	{Key: "status", Label: "Status", Sortable: true, Filterable: true, Format: dashgrid.FormatText, Ranking: dashgrid.WorkflowRanking},
	{Key: "priority", Label: "Priority", Sortable: true, Filterable: true, Format: dashgrid.FormatText, Ranking: dashgrid.PriorityRanking},
	{Key: "assignee", Label: "Assignee", Sortable: true, Filterable: true, Format: dashgrid.FormatText},
	{Key: "project", Label: "Project", Sortable: true, Filterable: true, Format: dashgrid.FormatText},
	{Key: "due_date", Label: "Due", Sortable: true, Format: dashgrid.FormatDate},
	{Key: "estimate", Label: "Estimate (h)", Sortable: true, Format: dashgrid.FormatNumber},
	{Key: "progress", Label: "Progress", Sortable: true, Format: dashgrid.FormatPercentage},
}

// Field implements dashgrid.Fielder
func (t Task) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return t.ID, true
	case "title":
		return t.Title, true
	case "status":
		return t.Status, true
	case "priority":
		return t.Priority, true
	case "assignee":
		return t.Assignee, t.Assignee != ""
	case "project":
		return t.Project, true
	case "due_date":
		if t.DueDate.IsZero() {
			return nil, false
		}
		return t.DueDate, true
	case "estimate":
		return t.Estimate, true
	case "progress":
		return t.Progress, true
	}
	return nil, false
}

var (
	taskVerbs    = []string{"Design", "Implement", "Review", "Refactor", "Document", "Test", "Deploy", "Audit"}
	taskSubjects = []string{"Homepage", "Checkout flow", "Revenue chart", "Insight feed", "Auth service", "Kanban board", "Export job", "Search index"}
	assignees    = []string{"Alex Kim", "Sam Patel", "Jordan Lee", "Riley Chen", "Morgan Diaz", ""}
	projects     = []string{"Atlas", "Beacon", "Comet"}
)

// Tasks generates n tasks due in the weeks after start. About one in eight
// tasks is unscheduled.
func Tasks(n int, start time.Time, seed int64) []Task {
	r := rand.New(rand.NewSource(seed))
	tasks := make([]Task, 0, n)
	for i := 0; i < n; i++ {
		t := Task{
			ID:       newID(r),
			Title:    pick(r, taskVerbs) + " " + pick(r, taskSubjects),
			Status:   pick(r, dashgrid.WorkflowRanking),
			Priority: pick(r, dashgrid.PriorityRanking),
			Assignee: pick(r, assignees),
			Project:  pick(r, projects),
			Estimate: float64(1 + r.Intn(40)),
			Progress: round2(r.Float64()),
		}
		if r.Intn(8) != 0 {
			t.DueDate = start.AddDate(0, 0, r.Intn(60))
		}
		if t.Status == "done" {
			t.Progress = 1
		}
		tasks = append(tasks, t)
	}
	return tasks
}
