package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/tasklist/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"done 2", TypeDone},
		{"complete 2", TypeDone},
		{"undo abc123", TypeUndo},
		{"delete 1", TypeDelete},
		{"rm 1", TypeDelete},
		{"filter", TypeFilter},
		{"theme dark", TypeTheme},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddPriority(t *testing.T) {
	cases := []struct {
		in       string
		content  string
		priority model.Priority
	}{
		{"add high call the bank", "call the bank", model.PriorityHigh},
		{"add LOW water plants", "water plants", model.PriorityLow},
		{"add 中 牛乳を買う", "牛乳を買う", model.PriorityMedium},
		{"add h2o filter", "h2o filter", ""},
		{"add high", "high", ""},
		{"add low-hanging fruit", "low-hanging fruit", ""},
	}
	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Add.Content != tc.content || cmd.Add.Priority != tc.priority {
			t.Fatalf("parse %q = %+v, want content=%q priority=%q", tc.in, *cmd.Add, tc.content, tc.priority)
		}
	}
}

func TestParseFilterAndTheme(t *testing.T) {
	cmd, err := Parse("filter on")
	if err != nil || cmd.Filter.Mode != FilterOn {
		t.Fatalf("expected filter on, got %+v err=%v", cmd.Filter, err)
	}
	cmd, err = Parse("filter all")
	if err != nil || cmd.Filter.Mode != FilterOff {
		t.Fatalf("expected filter off, got %+v err=%v", cmd.Filter, err)
	}
	cmd, err = Parse("filter")
	if err != nil || cmd.Filter.Mode != FilterToggle {
		t.Fatalf("expected filter toggle, got %+v err=%v", cmd.Filter, err)
	}
	cmd, err = Parse("theme")
	if err != nil || cmd.Theme.Name != "" {
		t.Fatalf("expected theme toggle, got %+v err=%v", cmd.Theme, err)
	}
	cmd, err = Parse("theme Light")
	if err != nil || cmd.Theme.Name != "light" {
		t.Fatalf("expected light theme, got %+v err=%v", cmd.Theme, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"add", "add   ", "done", "done 1 2", "filter maybe", "theme solarized", "delete"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Content != "write docs" {
				t.Fatalf("unexpected content: %q", a.Content)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteRefCommands(t *testing.T) {
	var got []string
	record := func(name string) func(RefArgs) (Result, error) {
		return func(a RefArgs) (Result, error) {
			got = append(got, name+":"+a.Ref)
			return Result{}, nil
		}
	}
	handlers := Handlers{Done: record("done"), Undo: record("undo"), Delete: record("delete")}
	for _, in := range []string{"done 1", "undo 2", "rm abc"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if _, err := Execute(cmd, handlers); err != nil {
			t.Fatalf("execute %q: %v", in, err)
		}
	}
	want := []string{"done:1", "undo:2", "delete:abc"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatch %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("filter off")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
