package dataset

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestParseKindAliases(t *testing.T) {
	cases := map[string]Kind{
		"schema-change":        SchemaChange,
		"new-old-delete":       SchemaChange,
		" Name-Mismatch ":      NameMismatch,
		"column-name-mismatch": NameMismatch,
		"column-dtype":         DtypeMismatch,
		"DTYPE-MISMATCH":       DtypeMismatch,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseKind("orders"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestValueDefaults(t *testing.T) {
	r := Row{
		FieldSchemaName:      Text("sales"),
		FieldNewColumnsCount: Num(3),
		"ratio":              Num(12.5),
		"blank":              Text(""),
	}
	if got := r.Num(FieldNewColumnsCount); got != 3 {
		t.Fatalf("Num = %v, want 3", got)
	}
	if got := r.Num(FieldDeletedColumnsCount); got != 0 {
		t.Fatalf("missing numeric should read 0, got %v", got)
	}
	if got := r.Num(FieldSchemaName); got != 0 {
		t.Fatalf("text read as number should be 0, got %v", got)
	}
	if got := r.Text("ratio"); got != "12.5" {
		t.Fatalf("Text(ratio) = %q", got)
	}
	if got := r.Text(FieldNewColumnsCount); got != "3" {
		t.Fatalf("Text(count) = %q", got)
	}
	if !r.Get("blank").IsNull() {
		t.Fatalf("empty text should be absent")
	}
	if got := r.Display(FieldTableName); got != "-" {
		t.Fatalf("Display of missing text = %q, want -", got)
	}
}

func TestColumnsDeclaredThenExtra(t *testing.T) {
	d := New(SchemaChange, []Row{
		{FieldSchemaName: Text("a"), "zeta": Num(1)},
		{"alpha": Text("x")},
	})
	cols := d.Columns()
	if len(cols) != 8 {
		t.Fatalf("expected 6 declared + 2 extra columns, got %v", cols)
	}
	if cols[0] != FieldSchemaName || cols[6] != "alpha" || cols[7] != "zeta" {
		t.Fatalf("unexpected column order: %v", cols)
	}
}

func TestBucketsTotalAndExclusive(t *testing.T) {
	for _, p := range []float64{0, 0.001, 1, 25, 25.0001, 50, 50.5, 75, 75.1, 100, 250} {
		n := 0
		for _, b := range Buckets {
			if b.Contains(p) {
				n++
				if BucketOf(p) != b {
					t.Fatalf("BucketOf(%v) = %v, Contains says %v", p, BucketOf(p), b)
				}
			}
		}
		if n != 1 {
			t.Fatalf("percentage %v matched %d buckets", p, n)
		}
	}
	if BucketOf(100).Label() != "76-100%" || BucketOf(0).Label() != "0%" {
		t.Fatalf("unexpected labels")
	}
}

func TestStoreReplaceAndGet(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newStoreWithClock(func() time.Time { return clock })

	if d := s.Get(NameMismatch); d.Len() != 0 || d.Kind != NameMismatch {
		t.Fatalf("never-loaded kind should be empty, got %+v", d)
	}

	rows := []Row{{FieldSchemaName: Text("a")}, {FieldSchemaName: Text("b")}}
	clock = clock.Add(time.Minute)
	l, err := s.Replace(SchemaChange, rows, "new_old_delete.csv")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if l.ID == "" || l.Rows != 2 || l.Source != "new_old_delete.csv" {
		t.Fatalf("unexpected load: %+v", l)
	}
	if !s.LastUpdated().Equal(clock) {
		t.Fatalf("LastUpdated = %v, want %v", s.LastUpdated(), clock)
	}

	// Caller mutation of the input rows must not leak into the store.
	rows[1][FieldSchemaName] = Text("edited")
	rows[1][FieldTableName] = Text("added")
	rows[0] = Row{FieldSchemaName: Text("mutated")}
	stored := s.Get(SchemaChange)
	if got := stored.Rows[0].Text(FieldSchemaName); got != "a" {
		t.Fatalf("store observed slice mutation: %q", got)
	}
	if got := stored.Rows[1].Text(FieldSchemaName); got != "b" {
		t.Fatalf("store observed row map mutation: %q", got)
	}
	if !stored.Rows[1].Get(FieldTableName).IsNull() {
		t.Fatalf("store observed a field added after replace")
	}

	l2, err := s.Replace(SchemaChange, nil, "upload")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if l2.ID == l.ID {
		t.Fatalf("each replace should get a new load id")
	}
	if s.Get(SchemaChange).Len() != 0 {
		t.Fatalf("replace should swap the whole dataset")
	}

	if _, err := s.Replace(Kind("orders"), rows, "x"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestStoreSnapshotConsistentUnderReplace(t *testing.T) {
	s := NewStore()
	big := make([]Row, 100)
	for i := range big {
		big[i] = Row{FieldTableName: Text("t")}
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				_, _ = s.Replace(DtypeMismatch, big, "big")
			} else {
				_, _ = s.Replace(DtypeMismatch, big[:1], "small")
			}
		}
	}()
	for i := 0; i < 200; i++ {
		snap := s.Snapshot()
		n := snap.Datasets[DtypeMismatch].Len()
		if n != 0 && n != 1 && n != 100 {
			t.Fatalf("observed partial dataset of %d rows", n)
		}
		if l, ok := snap.Loads[DtypeMismatch]; ok && l.Rows != n {
			t.Fatalf("load rows %d disagree with dataset rows %d", l.Rows, n)
		}
	}
	wg.Wait()
}
