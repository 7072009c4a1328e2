// Package auth provides authentication and authorization for the API.
//
// Users log in with email and password and receive a signed JWT. Protected
// routes require an "Authorization: Bearer <token>" header; the verified
// claims are stored in the gin context as a Principal.
//
// # Configuration
//
//	JWT_SECRET=<random string>   # Required, HMAC signing key
//	JWT_EXPIRY=24h               # Token lifetime
//	JWT_ISSUER=bookstore         # iss claim
//	AUTH_BCRYPT_COST=12          # bcrypt cost factor
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	tokens := auth.NewTokenIssuer(cfg.Auth)
//	authService := auth.NewService(userRepo, tokens, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(tokens)
//	admin := router.Group("/", authMiddleware.RequireAuth(), authMiddleware.RequireRole(entities.UserRoleAdmin))
//
// Extract the caller in handlers:
//
//	principal, ok := auth.GetPrincipal(c)
package auth
