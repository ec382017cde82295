package sitemapcmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/soygarfield/go-editorial/internal/sitemap"
)

type stubGenerator struct {
	calls  int
	result *sitemap.Result
	err    error
}

func (g *stubGenerator) Generate(context.Context) (*sitemap.Result, error) {
	g.calls++
	return g.result, g.err
}

func TestGenerateCommandValidation(t *testing.T) {
	cases := []struct {
		name    string
		cmd     GenerateCommand
		wantErr bool
	}{
		{"cli", GenerateCommand{Trigger: TriggerCLI}, false},
		{"schedule", GenerateCommand{Trigger: TriggerSchedule, RequestID: "abc"}, false},
		{"missing", GenerateCommand{}, true},
		{"unknown", GenerateCommand{Trigger: "cron"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("validate: got %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGenerateHandlerReportsResult(t *testing.T) {
	gen := &stubGenerator{result: &sitemap.Result{RunID: "run-1", State: sitemap.StateDone, URLs: 12}}
	var seen *sitemap.Result
	handler := NewGenerateHandler(gen, nil, func(r *sitemap.Result) { seen = r })

	if err := handler.Execute(context.Background(), GenerateCommand{Trigger: TriggerCLI}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gen.calls != 1 || seen == nil || seen.URLs != 12 {
		t.Fatalf("expected one run reported, calls=%d seen=%+v", gen.calls, seen)
	}
}

func TestGenerateHandlerPropagatesFailure(t *testing.T) {
	gen := &stubGenerator{
		result: &sitemap.Result{State: sitemap.StateFailed},
		err:    errors.New("source down"),
	}
	var seen *sitemap.Result
	handler := NewGenerateHandler(gen, nil, func(r *sitemap.Result) { seen = r })

	err := handler.Execute(context.Background(), GenerateCommand{Trigger: TriggerSchedule})
	if err == nil {
		t.Fatal("expected failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if seen == nil || seen.State != sitemap.StateFailed {
		t.Fatalf("expected failed result to be reported, got %+v", seen)
	}
}

func TestGenerateHandlerRejectsInvalidCommand(t *testing.T) {
	gen := &stubGenerator{}
	handler := NewGenerateHandler(gen, nil, nil)

	err := handler.Execute(context.Background(), GenerateCommand{Trigger: "nope"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatal("generator must not run for invalid commands")
	}
}
