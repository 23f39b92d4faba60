package auth

import "context"

// AuthVerifier valida un Bearer token contra el proveedor de identidad.
// Un token inválido o vencido es error; el middleware lo trata como anónimo.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
