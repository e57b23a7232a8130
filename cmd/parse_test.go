package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewParseCmd_OutputsEntriesAsJSON(t *testing.T) {
	m := newMockIO(t, "src/a: x.txt, y.txt\n\n: README.md\ndocs")
	out, _, err := execute(NewParseCmd(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Version string `json:"version"`
		Entries []struct {
			Directory []string `json:"directory"`
			Files     []string `json:"files"`
			Line      int      `json:"line"`
		} `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	if got.Version != "1" {
		t.Errorf("version = %q, want \"1\"", got.Version)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(got.Entries))
	}
	if strings.Join(got.Entries[0].Directory, "/") != "src/a" || len(got.Entries[0].Files) != 2 {
		t.Errorf("entry 0 = %+v", got.Entries[0])
	}
	if len(got.Entries[1].Directory) != 0 || got.Entries[1].Line != 3 {
		t.Errorf("entry 1 = %+v, want root entry on line 3", got.Entries[1])
	}
	if got.Entries[2].Files == nil {
		t.Error("files must encode as [] not null")
	}
}

func TestNewParseCmd_EmptyInputHasEmptyEntries(t *testing.T) {
	m := newMockIO(t, "")
	out, _, err := execute(NewParseCmd(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"entries":[]`) {
		t.Errorf("expected empty entries array, got %s", out)
	}
}

func TestNewParseCmd_ReadsNamedFile(t *testing.T) {
	m := newMockIO(t, "")
	m.inputs["layout.txt"] = "a"
	if _, _, err := execute(NewParseCmd(m), "layout.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.lastArg != "layout.txt" {
		t.Errorf("read %q, want layout.txt", m.lastArg)
	}
}

func TestNewParseCmd_ReadError(t *testing.T) {
	m := newMockIO(t, "")
	m.readErr = errRead
	_, _, err := execute(NewParseCmd(m))
	if err == nil || !strings.Contains(err.Error(), "reading input") {
		t.Errorf("err = %v, want reading input error", err)
	}
}

func TestNewParseCmd_RejectsExtraArgs(t *testing.T) {
	if _, _, err := execute(NewParseCmd(newMockIO(t, "")), "a", "b"); err == nil {
		t.Error("expected error for two input arguments")
	}
}
