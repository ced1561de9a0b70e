package resilience

import (
	"context"

	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
)

// Generator guards a text generator with the executor's circuit breaker.
type Generator struct {
	next      ports.TextGenerator
	exec      *Executor
	operation string
}

func NewGenerator(next ports.TextGenerator, exec *Executor, operation string) *Generator {
	return &Generator{next: next, exec: exec, operation: operation}
}

func (g *Generator) Generate(ctx context.Context, model, prompt string) (string, error) {
	var out string
	err := g.exec.Execute(ctx, g.operation, func(ctx context.Context) error {
		text, err := g.next.Generate(ctx, model, prompt)
		if err != nil {
			return err
		}
		out = text
		return nil
	}, DefaultClassifier)
	if err != nil {
		return "", err
	}
	return out, nil
}
