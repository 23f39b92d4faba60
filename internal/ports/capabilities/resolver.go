package capabilities

import "context"

// TagsAdmin habilita el alta de tags (single, batch, random).
const TagsAdmin = "tags:admin"

// Resolver responde si un usuario tiene una capability.
type Resolver interface {
	Has(ctx context.Context, userID string, capability string) (bool, error)
}
