package staticcmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/soygarfield/go-editorial/internal/generator"
)

type stubService struct {
	calls  []generator.BuildOptions
	result *generator.BuildResult
	err    error
}

func (s *stubService) Build(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.calls = append(s.calls, opts)
	return s.result, s.err
}

func TestBuildSiteHandlerForwardsOptions(t *testing.T) {
	svc := &stubService{result: &generator.BuildResult{PagesBuilt: 4}}
	handler := NewBuildSiteHandler(svc, nil)

	var seen *generator.BuildResult
	err := handler.Execute(context.Background(), BuildSiteCommand{
		Force:          true,
		ResultCallback: func(r *generator.BuildResult) { seen = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(svc.calls) != 1 || !svc.calls[0].Force || svc.calls[0].DryRun {
		t.Fatalf("unexpected build options %+v", svc.calls)
	}
	if seen == nil || seen.PagesBuilt != 4 {
		t.Fatalf("expected result callback, got %+v", seen)
	}
}

func TestBuildSiteHandlerWrapsFailure(t *testing.T) {
	svc := &stubService{result: &generator.BuildResult{}, err: errors.New("disk full")}
	var seen *generator.BuildResult
	handler := NewBuildSiteHandler(svc, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{
		ResultCallback: func(r *generator.BuildResult) { seen = r },
	})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if seen == nil {
		t.Fatal("failed runs still report their result")
	}
}

func TestDiffSiteHandlerAlwaysDryRuns(t *testing.T) {
	svc := &stubService{result: &generator.BuildResult{DryRun: true}}
	handler := NewDiffSiteHandler(svc, nil)

	if err := handler.Execute(context.Background(), DiffSiteCommand{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(svc.calls) != 1 || !svc.calls[0].DryRun {
		t.Fatalf("expected dry run, got %+v", svc.calls)
	}
}

func TestNewBuildSiteHandlerRequiresService(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic without a service")
		}
	}()
	NewBuildSiteHandler(nil, nil)
}
