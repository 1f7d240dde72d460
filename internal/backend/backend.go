package backend

import (
	"context"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

const RequestIDHeader = "X-Request-ID"

// Backend is the generic table service sitting behind the middleware.
type Backend interface {
	// Send forwards the envelope to the endpoint of req.TableName and returns
	// the raw reply body.
	Send(ctx context.Context, req *models.Request) ([]byte, error)
	// List returns the items matching fields. A reply without items yields an
	// empty slice.
	List(ctx context.Context, table string, fields map[string]any) ([]models.Record, error)
	Edit(ctx context.Context, table string, primaryKey any, fields map[string]any) (*models.BackendResponse, error)
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored in ctx, generating one if there is none.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
