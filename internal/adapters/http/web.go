package web

import (
	"crypto/sha256"
	"net/http"
	"time"

	"wellness/internal/adapters/http/middleware"
	selectionStore "wellness/internal/adapters/selection"
	absenceStore "wellness/internal/adapters/storage/absence"
	accountStore "wellness/internal/adapters/storage/account"
	athleteStore "wellness/internal/adapters/storage/athlete"
	catalogStore "wellness/internal/adapters/storage/catalog"
	wellnessStore "wellness/internal/adapters/storage/wellness"
	"wellness/internal/adapters/token"
	"wellness/internal/config"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	AthleteStore athleteStore.Store
	RecordStore  wellnessStore.Store
	AbsenceStore absenceStore.Store
	CatalogStore catalogStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global selection lock store (set by NewMux)
var selectionLocks *selectionStore.Store

// Global app config (set by NewMux)
var appConfig config.Config

// Global session token codec (set by NewMux)
var sessionCodec *token.Codec

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
func NewMux(cfg config.Config, s *Stores, codec *token.Codec, locks *selectionStore.Store) http.Handler {
	stores = s
	selectionLocks = locks
	appConfig = cfg
	sessionCodec = codec

	mux := http.NewServeMux()
	registerRoutes(mux)

	// The CSRF auth key is derived from the cookie secret; the session
	// jar already fails hard when that secret is missing in production.
	csrfKey := sha256.Sum256([]byte(cfg.CookieSecret + "|csrf"))
	trustedOrigins := []string{cfg.CookieDomain, cfg.CookieDomain + cfg.Addr}

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	cookieCfg := middleware.CookieConfig{
		Secret:  cfg.CookieSecret,
		Prefix:  cfg.CookieName,
		Domain:  cfg.CookieDomain,
		ExpDays: cfg.CookieExpDays,
		Secure:  cfg.IsProduction(),
	}

	// Apply middleware: RequestLog -> RateLimit -> SecurityHeaders -> CSRF -> Auth -> Mux
	return middleware.Chain(mux,
		middleware.Auth(codec, s.AccountStore, cookieCfg),
		middleware.CSRF(csrfKey[:], cfg.IsProduction(), trustedOrigins),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.RequestLog,
	)
}
