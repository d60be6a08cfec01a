package live

import (
	"context"

	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
	"github.com/niksmo/misslily/pkg/fanin"
)

// Source adapts a query subscription to a typed [fanin.Source].
func Source[T any](
	s port.Subscriber, q domain.Query, decode func([]domain.Document) []T,
) fanin.Source[[]T] {
	return func(ctx context.Context, onChange func([]T)) (func(), error) {
		return s.Subscribe(ctx, q, func(ds []domain.Document) {
			onChange(decode(ds))
		})
	}
}
