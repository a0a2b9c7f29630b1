package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docsplit.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "docsplit.yaml" {
			t.Errorf("expected context file=docsplit.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !HasSeverity(err, SeverityFatal) {
			t.Error("expected error to have fatal severity")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Wrapped in fmt.Errorf", func(t *testing.T) {
		inner := NotFoundError("no document").Build()
		outer := fmt.Errorf("split: %w", inner)

		if GetCategory(outer) != CategoryNotFound {
			t.Errorf("expected category %s through wrapping, got %s", CategoryNotFound, GetCategory(outer))
		}
		if GetSeverity(outer) != SeverityWarning {
			t.Errorf("expected warning severity, got %s", GetSeverity(outer))
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := WrapError(originalErr, CategoryFileSystem, "write page failed").
		Warning().
		Retryable().
		WithContext("path", "docs/Intro/Intro.md").
		Build()

	if err.RetryStrategy() != RetryBackoff {
		t.Errorf("expected retry strategy %s, got %s", RetryBackoff, err.RetryStrategy())
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	if err.Cause() != originalErr {
		t.Error("expected cause to be the original error")
	}

	path, _ := err.Context().GetString("path")
	if path != "docs/Intro/Intro.md" {
		t.Errorf("expected path context, got %s", path)
	}
}

func TestClassifiedError_WithContextDoesNotMutate(t *testing.T) {
	base := BuildError("emit failed").Build()
	derived := base.WithContext("block", "Intro")

	if _, ok := base.Context().Get("block"); ok {
		t.Error("expected original error context to stay unchanged")
	}
	if v, _ := derived.Context().GetString("block"); v != "Intro" {
		t.Errorf("expected derived context block=Intro, got %q", v)
	}
}

func TestClassifiedError_Is(t *testing.T) {
	a := NotFoundError("no source document").Build()
	b := NotFoundError("no source document").WithContext("dir", "/tmp").Build()
	c := NotFoundError("something else").Build()

	if !errors.Is(a, b) {
		t.Error("expected errors with same category and message to match")
	}
	if errors.Is(a, c) {
		t.Error("expected errors with different messages not to match")
	}
}
