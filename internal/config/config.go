package config

import (
	"os"
	"strings"
)

// Mode selects the persistence backend: cloud (postgres) is preferred when
// configured, local (sqlite) otherwise.
type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthSecret string

	// Seed account created on first boot when the users collection is empty.
	AdminUser     string
	AdminName     string
	AdminPassHash string // bcrypt

	GeminiAPIKey string
	GeminiModel  string

	CORSOriginsCloud []string
	CORSOriginsLocal []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeLocal
	}
	defDriver := "sqlite"
	if mode == ModeCloud {
		defDriver = "postgres"
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,
		DBDriver: envOr("DB_DRIVER", defDriver),
		DBDSN:    envOr("DB_DSN", ""),

		AuthSecret: envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),

		AdminUser: envOr("ADMIN_USER", "admin"),
		AdminName: envOr("ADMIN_NAME", "관리자 선생님"),
		// dev-only default; set ADMIN_PASS_HASH in any real deployment
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),

		CORSOriginsCloud: csvOr("CORS_ORIGINS_CLOUD", "https://app.edu-bridge.kr"),
		CORSOriginsLocal: csvOr("CORS_ORIGINS_LOCAL", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
