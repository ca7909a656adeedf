package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/glowmart/storefront-cart/pkg/config"
	"github.com/glowmart/storefront-cart/pkg/logger"
)

// Session resolves the cart owner for every request. A valid bearer token
// binds the cart to the backend account; everything else falls back to an
// anonymous session cookie minted on first contact. The middleware never
// rejects a request: a shopper with a bad token still gets an anonymous
// cart rather than an error page.
func Session(sessionCfg config.SessionConfig, jwtCfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" && jwtCfg.Secret != "" {
				if sub, err := verifyToken(token, jwtCfg); err == nil && sub != "" {
					ctx = WithCartOwner(ctx, "user:"+sub)
					ctx = WithBearerToken(ctx, token)
					if logg != nil {
						ctx = logg.WithCartOwner(ctx, "user:"+sub)
					}
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				} else if err != nil && logg != nil {
					logg.Error(ctx, "session.token_rejected", err)
				}
			}

			sessionID := cookieValue(r, sessionCfg.CookieName)
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCfg.CookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   sessionCfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			owner := "anon:" + sessionID
			ctx = WithCartOwner(ctx, owner)
			if logg != nil {
				ctx = logg.WithCartOwner(ctx, owner)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

func verifyToken(raw string, cfg config.JWTConfig) (string, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, options...)
	if err != nil {
		return "", err
	}
	return token.Claims.GetSubject()
}
