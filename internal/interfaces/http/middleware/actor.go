package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ActorKey      = "actor"
	ActorIDHeader = "X-Emp-Id"
)

// Claims é o conteúdo esperado do token de acesso
type Claims struct {
	EmpID string `json:"emp_id"`
	jwt.RegisteredClaims
}

func parseToken(tok string, secret []byte) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.EmpID != "" {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// Actor identifica o funcionário que faz a requisição.
// Com segredo configurado exige Bearer JWT HS256 com a claim emp_id; sem segredo usa o cabeçalho X-Emp-Id.
func Actor(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			c.Locals(ActorKey, strings.TrimSpace(c.Get(ActorIDHeader)))
			return c.Next()
		}

		h := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(h, "Bearer ") {
			return c.Status(401).JSON(fiber.Map{"error": "token de acesso ausente"})
		}
		claims, err := parseToken(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), []byte(secret))
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "token de acesso inválido"})
		}
		c.Locals(ActorKey, claims.EmpID)
		return c.Next()
	}
}

// ActorFrom devolve o ator gravado pelo middleware Actor
func ActorFrom(c *fiber.Ctx) string {
	actor, _ := c.Locals(ActorKey).(string)
	return actor
}
