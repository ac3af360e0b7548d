package activitylog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_AppendsNDJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "activity.ndjson")
	l, err := New(p, "run-test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Log(Record{Type: TypeRequest, Method: "POST", Link: "/Ping", Status: 200})
	l.Log(Record{Type: TypeIdleShutdown, Message: "ok"})
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var recs []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		recs = append(recs, r)
	}
	if len(recs) != 2 {
		t.Fatalf("records=%d", len(recs))
	}
	if recs[0].RunID != "run-test" || recs[0].Link != "/Ping" || recs[0].Status != 200 {
		t.Fatalf("rec0=%+v", recs[0])
	}
	if len(recs[0].ID) != 26 || recs[0].ID == recs[1].ID {
		t.Fatalf("ids=%q,%q", recs[0].ID, recs[1].ID)
	}
	if recs[0].Timestamp == "" {
		t.Fatalf("timestamp missing")
	}
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger
	l.Log(Record{Type: TypeRequest})
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestMakeRunID(t *testing.T) {
	a, b := MakeRunID(), MakeRunID()
	if !strings.HasPrefix(a, "run-") || a == b {
		t.Fatalf("a=%q b=%q", a, b)
	}
}
