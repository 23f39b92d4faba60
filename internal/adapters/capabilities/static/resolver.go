package static

import (
	"context"
	"errors"
	"strings"
)

// Resolver decide capabilities con una lista fija de usuarios admin.
// Hay un solo rol (admin): cualquier capability se concede a los IDs de la lista.
type Resolver struct {
	admins   map[string]struct{}
	allowAll bool
}

// NewResolver crea un resolver con los userIDs admin.
// Si allowAll es true (ALLOW_ALL_CAPABILITIES=true), todo devuelve true (modo dev).
func NewResolver(adminUserIDs []string, allowAll bool) *Resolver {
	admins := make(map[string]struct{}, len(adminUserIDs))
	for _, id := range adminUserIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		admins[id] = struct{}{}
	}
	return &Resolver{
		admins:   admins,
		allowAll: allowAll,
	}
}

// Has responde si userID tiene una capability.
func (r *Resolver) Has(ctx context.Context, userID string, capability string) (bool, error) {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		return false, errors.New("capability required")
	}

	if r == nil {
		return false, nil
	}
	if r.allowAll {
		return true, nil
	}

	_, ok := r.admins[strings.TrimSpace(userID)]
	return ok, nil
}
