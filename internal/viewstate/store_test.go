package viewstate

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gnemet/dashgrid"
)

func newTestStore(t *testing.T, opts Options) (*Store, *time.Time) {
	t.Helper()
	s := NewStore(opts)
	t.Cleanup(s.Close)

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestCreateGetPut(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	sess, err := s.Create("tasks", dashgrid.Query{Search: "doc"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.ID == "" || sess.Widget != "tasks" {
		t.Errorf("Unexpected session %+v", sess)
	}

	q, ok := s.Get(sess.ID)
	if !ok || q.Search != "doc" {
		t.Errorf("Expected stored search, got %q (found %v)", q.Search, ok)
	}

	if err := s.Put(sess.ID, "tasks", dashgrid.Query{GroupBy: "status"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if q, _ := s.Get(sess.ID); q.GroupBy != "status" || q.Search != "" {
		t.Errorf("Expected replaced query, got %+v", q)
	}

	if _, ok := s.Get("nope"); ok {
		t.Error("Expected unknown session to be missing")
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", s.Len())
	}
}

func TestToggleSortCycle(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	if err := s.Put("s1", "tasks", dashgrid.Query{}); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		key  string
		want dashgrid.SortDirection
	}{
		{"title", dashgrid.SortAsc},
		{"title", dashgrid.SortDesc},
		{"title", dashgrid.SortNone},
		{"title", dashgrid.SortAsc},
		{"due", dashgrid.SortAsc},
		{"due", dashgrid.SortDesc},
		{"title", dashgrid.SortAsc},
	}
	for i, step := range steps {
		q, err := s.ToggleSort("s1", step.key)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if q.Sort.Key != step.key || q.Sort.Direction != step.want {
			t.Errorf("step %d: expected %s %s, got %s %s", i, step.key, step.want, q.Sort.Key, q.Sort.Direction)
		}
	}

	if _, err := s.ToggleSort("missing", "title"); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Expected ErrUnknownSession, got %v", err)
	}
}

func TestQueriesAreCopied(t *testing.T) {
	s, _ := newTestStore(t, Options{})

	in := dashgrid.Query{
		Filters: map[string]string{"status": "todo"},
		Sort:    &dashgrid.SortSpec{Key: "title", Direction: dashgrid.SortAsc},
		Page:    &dashgrid.PageRequest{Number: 1, Size: 10},
	}
	if err := s.Put("sid", "tasks", in); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	in.Filters["status"] = "done"
	in.Sort.Key = "due"

	out, _ := s.Get("sid")
	out.Filters["owner"] = "bob"
	out.Page.Number = 7

	toggled, err := s.ToggleSort("sid", "title")
	if err != nil {
		t.Fatalf("ToggleSort failed: %v", err)
	}
	toggled.Filters["status"] = "review"

	got, _ := s.Get("sid")
	if len(got.Filters) != 1 || got.Filters["status"] != "todo" {
		t.Errorf("Expected stored filters to stay {status: todo}, got %v", got.Filters)
	}
	if got.Sort.Key != "title" || got.Sort.Direction != dashgrid.SortDesc {
		t.Errorf("Expected title:desc after one toggle, got %+v", got.Sort)
	}
	if got.Page.Number != 1 {
		t.Errorf("Expected stored page 1, got %d", got.Page.Number)
	}
}

func TestCapacity(t *testing.T) {
	s, _ := newTestStore(t, Options{MaxSessions: 2})

	for _, sid := range []string{"a", "b"} {
		if err := s.Put(sid, "tasks", dashgrid.Query{}); err != nil {
			t.Fatalf("Put %s failed: %v", sid, err)
		}
	}
	if err := s.Put("c", "tasks", dashgrid.Query{}); err == nil {
		t.Error("Expected capacity error")
	}
	if _, err := s.Create("tasks", dashgrid.Query{}); err == nil {
		t.Error("Expected capacity error from Create")
	}
	// existing sessions can still be updated
	if err := s.Put("a", "tasks", dashgrid.Query{Search: "x"}); err != nil {
		t.Errorf("Expected update of an existing session to succeed, got %v", err)
	}
}

func TestExpiry(t *testing.T) {
	s, clock := newTestStore(t, Options{IdleTimeout: 10 * time.Minute, AbsTimeout: time.Hour})

	_ = s.Put("idle", "tasks", dashgrid.Query{})
	_ = s.Put("busy", "tasks", dashgrid.Query{})

	// keep "busy" active every 5 minutes
	for i := 0; i < 3; i++ {
		*clock = clock.Add(5 * time.Minute)
		s.Get("busy")
	}
	s.cleanupTimeouts()

	if _, ok := s.Get("idle"); ok {
		t.Error("Expected idle session to expire")
	}
	if _, ok := s.Get("busy"); !ok {
		t.Fatal("Expected busy session to survive")
	}

	for i := 0; i < 10; i++ {
		*clock = clock.Add(5 * time.Minute)
		s.Get("busy")
	}
	s.cleanupTimeouts()
	if s.Len() != 0 {
		t.Errorf("Expected absolute timeout to drop every session, got %d", s.Len())
	}
}

func TestConcurrentToggle(t *testing.T) {
	s, _ := newTestStore(t, Options{})
	_ = s.Put("s1", "tasks", dashgrid.Query{})

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ToggleSort("s1", "title"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	// 30 toggles from nothing: asc, desc, none repeated ten times
	q, _ := s.Get("s1")
	if q.Sort.Direction != dashgrid.SortNone {
		t.Errorf("Expected none after 30 toggles, got %s", q.Sort.Direction)
	}
}
