package schema

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/sr"
)

var _ SchemaIdentifier = (*SchemaRegistry)(nil)

// A SchemaRegistry identifies avro schemas through a schema registry.
type SchemaRegistry struct {
	cl *sr.Client
}

func NewSchemaRegistry(urls ...string) (SchemaRegistry, error) {
	const op = "NewSchemaRegistry"

	cl, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		return SchemaRegistry{}, fmt.Errorf("%s: %w", op, err)
	}
	return SchemaRegistry{cl}, nil
}

// DetermineID registers the schema under subject and returns its id. An
// already registered schema keeps its id.
func (r SchemaRegistry) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (int, error) {
	const op = "SchemaRegistry.DetermineID"

	ss, err := r.cl.CreateSchema(ctx, subject, sr.Schema{
		Type:   sr.TypeAvro,
		Schema: avroSchemaText,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return ss.ID, nil
}
