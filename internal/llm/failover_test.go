package llm

import (
	"context"
	"fmt"
	"testing"
)

type stubGenerator struct {
	output string
	err    error

	calls      int
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	return s.output, s.err
}

func TestFailoverGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("HostedSuccessSkipsLocal", func(t *testing.T) {
		hosted := &stubGenerator{output: "42"}
		local := &stubGenerator{output: "never"}
		gen := NewFailoverGenerator(hosted, local)

		out, err := gen.Generate(ctx, "sys", "pick one")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if out != "42" {
			t.Errorf("Expected hosted output '42', got '%s'", out)
		}
		if local.calls != 0 {
			t.Errorf("Expected local backend untouched, got %d calls", local.calls)
		}
	})

	t.Run("HostedErrorFallsBackWithSameRequest", func(t *testing.T) {
		hosted := &stubGenerator{err: fmt.Errorf("connection refused")}
		local := &stubGenerator{output: "7"}
		gen := NewFailoverGenerator(hosted, local)

		out, err := gen.Generate(ctx, "sys", "pick one")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if out != "7" {
			t.Errorf("Expected local output '7', got '%s'", out)
		}
		if local.calls != 1 {
			t.Fatalf("Expected exactly one local call, got %d", local.calls)
		}
		if local.lastSystem != "sys" || local.lastPrompt != "pick one" {
			t.Errorf("Local backend did not receive the same request: system=%q prompt=%q",
				local.lastSystem, local.lastPrompt)
		}
	})

	t.Run("BothFail", func(t *testing.T) {
		hosted := &stubGenerator{err: fmt.Errorf("hosted down")}
		local := &stubGenerator{err: fmt.Errorf("local down")}
		gen := NewFailoverGenerator(hosted, local)

		if _, err := gen.Generate(ctx, "sys", "pick one"); err == nil {
			t.Fatal("Expected an error when both backends fail, got nil")
		}
	})
}
