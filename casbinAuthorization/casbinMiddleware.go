package casbinAuthorization

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/casbin/casbin"
	"github.com/cristalhq/jwt/v4"
)

// The verifier is built on first use so SECRET_KEY is read after the
// .env file has been loaded, not at package init.
var (
	verifierOnce sync.Once
	verifier     *jwt.HSAlg
	verifierErr  error
)

func tokenVerifier() (*jwt.HSAlg, error) {
	verifierOnce.Do(func() {
		verifier, verifierErr = jwt.NewVerifierHS(jwt.HS256, []byte(os.Getenv("SECRET_KEY")))
	})
	return verifier, verifierErr
}

func parseToken(tokenString string) (*jwt.Token, error) {
	verifier, err := tokenVerifier()
	if err != nil {
		log.Println(err)
		return nil, err
	}
	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	return token, nil
}

func extractRole(r *http.Request) (string, error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return "Unauthenticated", nil
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 {
		return "", errors.New("invalid token format")
	}

	token, err := parseToken(bearerToken[1])
	if err != nil {
		log.Println("Error parsing token:", err)
		return "", err
	}

	claims := extractClaims(token)
	role, ok := claims["role"]
	if !ok {
		log.Println("role claim not found in token")
		return "", errors.New("role claim not found in token")
	}

	return role, nil
}

func extractClaims(token *jwt.Token) map[string]string {
	var claims map[string]string

	verifier, err := tokenVerifier()
	if err != nil {
		log.Println(err)
		return claims
	}
	if err := jwt.ParseClaims(token.Bytes(), verifier, &claims); err != nil {
		log.Println(err)
	}

	return claims
}

func CasbinMiddleware(e *casbin.Enforcer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userRole, err := extractRole(r)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := e.EnforceSafe(userRole, r.URL.Path, r.Method)
			if err != nil {
				log.Println("enforce error:", err)
				http.Error(w, "unauthorized user", http.StatusUnauthorized)
				return
			}

			if res {
				next.ServeHTTP(w, r)
			} else {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		return http.HandlerFunc(fn)
	}
}
