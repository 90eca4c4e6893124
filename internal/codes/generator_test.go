package codes

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var codeShape = regexp.MustCompile(`^CERT-[0-9A-F]{8}$`)

func TestGenerateProducesWellFormedCode(t *testing.T) {
	generator := NewGenerator(func(ctx context.Context, code string) (bool, error) {
		return false, nil
	})
	code, err := generator.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !codeShape.MatchString(code) {
		t.Fatalf("malformed code %q", code)
	}
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	var (
		checks int
		taken  string
	)
	generator := NewGenerator(func(ctx context.Context, code string) (bool, error) {
		checks++
		if checks <= 2 {
			taken = code
			return true, nil
		}
		return false, nil
	})

	code, err := generator.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checks != 3 {
		t.Fatalf("expected 3 uniqueness checks, got %d", checks)
	}
	if code == taken {
		t.Fatalf("expected a code other than the taken one, got %q", code)
	}
}

func TestGenerateGivesUpAfterAttemptCap(t *testing.T) {
	checks := 0
	generator := NewGenerator(func(ctx context.Context, code string) (bool, error) {
		checks++
		return true, nil
	})

	_, err := generator.Generate(context.Background())
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if checks != defaultMaxAttempts {
		t.Fatalf("expected %d checks, got %d", defaultMaxAttempts, checks)
	}
}

func TestGeneratePropagatesCheckFailure(t *testing.T) {
	boom := errors.New("store unavailable")
	generator := NewGenerator(func(ctx context.Context, code string) (bool, error) {
		return false, boom
	})

	_, err := generator.Generate(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
