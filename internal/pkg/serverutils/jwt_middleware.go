package serverutils

import (
	"os"
	"time"

	"turbo-notes-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// NewJwtMiddleware builds the auth guard. Tokens carry a jti claim; a token
// whose jti is in the revocation store is treated the same as an invalid one.
func NewJwtMiddleware(revocations store.RevocationStore) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				secret = "default_secret"
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}

		jti, _ := claims["jti"].(string)
		if jti != "" && revocations != nil {
			revoked, err := revocations.IsRevoked(ctx.Context(), jti)
			if err == nil && revoked {
				return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
			}
		}

		ctx.Locals("user_id", claims["user_id"])
		ctx.Locals("jti", jti)
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			ctx.Locals("token_exp", exp.Time)
		} else {
			ctx.Locals("token_exp", time.Time{})
		}
		return ctx.Next()
	}
}
