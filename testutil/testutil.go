// Package testutil provides testing helpers for projector descriptors and
// log output. It imports only leaf packages and can be used from any
// package's tests.
package testutil

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/broady/vershape/shape"
)

// LogRecorder is a slog.Handler that keeps every record it handles.
type LogRecorder struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogger returns a debug-level logger writing to a new LogRecorder.
func NewLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(rec), rec
}

func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec.Clone())
	return nil
}

// Attributes and groups are not tracked.
func (r *LogRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *LogRecorder) WithGroup(string) slog.Handler      { return r }

// Count returns how many records with message msg were logged.
func (r *LogRecorder) Count(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Message == msg {
			n++
		}
	}
	return n
}

// Attr returns the value of attribute key on the last record with message
// msg.
func (r *LogRecorder) Attr(msg, key string) (slog.Value, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Message != msg {
			continue
		}
		var v slog.Value
		found := false
		r.records[i].Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				v, found = a.Value, true
				return false
			}
			return true
		})
		return v, found
	}
	return slog.Value{}, false
}

// AssertStruct checks that t is a sealed synthesized type and returns it.
func AssertStruct(t *testing.T, typ shape.Type) *shape.StructType {
	t.Helper()
	st, ok := typ.(*shape.StructType)
	if !ok {
		t.Fatalf("expected *shape.StructType, got %T (%v)", typ, typ)
	}
	if !st.IsSealed() {
		t.Errorf("expected %v to be sealed", st)
	}
	return st
}

// AssertFieldNames checks the field names of st, in order.
func AssertFieldNames(t *testing.T, st *shape.StructType, want ...string) {
	t.Helper()
	var got []string
	for _, f := range st.Fields() {
		got = append(got, f.Name)
	}
	if !slices.Equal(got, want) {
		t.Errorf("%v fields = %v, want %v", st, got, want)
	}
}

// FieldType returns the type of the named field, failing the test if st
// has no such field.
func FieldType(t *testing.T, st *shape.StructType, name string) shape.Type {
	t.Helper()
	f, ok := st.Field(name)
	if !ok {
		t.Fatalf("%v has no field %s", st, name)
	}
	return f.Type
}

// AssertJSON marshals v and compares it with want after normalizing both.
func AssertJSON(t *testing.T, v any, want string) {
	t.Helper()
	got, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var gotData, wantData any
	if err := json.Unmarshal(got, &gotData); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if err := json.Unmarshal([]byte(want), &wantData); err != nil {
		t.Fatalf("unmarshal expected: %v", err)
	}
	gotStr, _ := json.MarshalIndent(gotData, "", "  ")
	wantStr, _ := json.MarshalIndent(wantData, "", "  ")
	if string(gotStr) != string(wantStr) {
		t.Errorf("JSON mismatch:\nExpected:\n%s\nActual:\n%s", wantStr, gotStr)
	}
}
