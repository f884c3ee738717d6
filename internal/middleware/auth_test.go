package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ativflow_backend/internal/config"
	"ativflow_backend/internal/model"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "middleware-test-secret"

func testRouter(roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret

	r := gin.New()
	group := r.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleMiddleware(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": user.UserID})
	})
	return r
}

func tokenFor(t *testing.T, role model.UserRole) string {
	t.Helper()
	claims := &util.Claims{
		UserID: 7,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.token", want: http.StatusUnauthorized},
		{name: "valid header token", header: "Bearer " + tokenFor(t, model.Student), want: http.StatusOK},
		{name: "valid query token", query: tokenFor(t, model.Student), want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			url := "/ping"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	r := testRouter(model.Teacher)

	tests := []struct {
		name string
		role model.UserRole
		want int
	}{
		{name: "teacher passes", role: model.Teacher, want: http.StatusOK},
		{name: "admin passes everything", role: model.Admin, want: http.StatusOK},
		{name: "student blocked", role: model.Student, want: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tc.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
