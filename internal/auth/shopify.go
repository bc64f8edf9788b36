package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"smartrecommend-backend/internal/merchants"
	"smartrecommend-backend/internal/shared/config"
	"smartrecommend-backend/internal/shared/server/respond"
	"smartrecommend-backend/internal/shared/telemetry"
	"smartrecommend-backend/internal/shared/util"
)

// ShopifyService handles the platform OAuth install flow.
type ShopifyService struct {
	apiKey      string
	apiSecret   string
	scopes      []string
	redirectURL string
	uiRedirect  string
	merchants   merchants.Repo
	stateTTL    time.Duration
	stateStore  *stateStore

	// endpointFor is swappable in tests.
	endpointFor func(shop string) oauth2.Endpoint
}

// NewShopifyService builds a ShopifyService.
func NewShopifyService(cfg config.Config, repo merchants.Repo) *ShopifyService {
	return &ShopifyService{
		apiKey:      cfg.ShopifyAPIKey,
		apiSecret:   cfg.ShopifyAPISecret,
		scopes:      strings.Split(cfg.ShopifyScopes, ","),
		redirectURL: strings.TrimSuffix(cfg.AppURL, "/") + "/api/v1/auth/callback",
		uiRedirect:  cfg.UIRedirectURL,
		merchants:   repo,
		stateTTL:    5 * time.Minute,
		stateStore:  newStateStore(),
		endpointFor: platformEndpoint,
	}
}

func platformEndpoint(shop string) oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:  "https://" + shop + "/admin/oauth/authorize",
		TokenURL: "https://" + shop + "/admin/oauth/access_token",
	}
}

func (s *ShopifyService) oauthConfig(shop string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.apiKey,
		ClientSecret: s.apiSecret,
		RedirectURL:  s.redirectURL,
		Scopes:       s.scopes,
		Endpoint:     s.endpointFor(shop),
	}
}

// RegisterRoutes attaches the install flow routes.
func (s *ShopifyService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/install", s.install)
	rg.GET("/auth/callback", s.callback)
}

func (s *ShopifyService) install(c *gin.Context) {
	if s.apiKey == "" || s.apiSecret == "" {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "platform auth not configured", nil)
		return
	}

	shop := strings.TrimSpace(c.Query("shop"))
	if !util.ValidShopDomain(shop) {
		respond.Error(c, http.StatusBadRequest, "invalid_shop", "invalid shop domain", nil)
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, shop, time.Now().Add(s.stateTTL))

	c.Redirect(http.StatusFound, s.oauthConfig(shop).AuthCodeURL(state))
}

func (s *ShopifyService) callback(c *gin.Context) {
	shop := strings.TrimSpace(c.Query("shop"))
	state := c.Query("state")
	code := c.Query("code")
	if shop == "" || state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing shop, state, or code", nil)
		return
	}

	if !s.stateStore.consume(state, shop) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}
	if !util.ValidShopDomain(shop) {
		respond.Error(c, http.StatusBadRequest, "invalid_shop", "invalid shop domain", nil)
		return
	}
	if !util.VerifyQueryHMAC(c.Request.URL.Query(), s.apiSecret) {
		respond.Error(c, http.StatusUnauthorized, "invalid_hmac", "hmac verification failed", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig(shop).Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	merchant := merchants.Merchant{
		ID:          uuid.NewString(),
		Shop:        shop,
		AccessToken: token.AccessToken,
		IsActive:    true,
	}
	if err := s.merchants.Upsert(ctx, merchant); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store merchant", nil)
		return
	}

	telemetry.Info("auth.installed", map[string]any{"shop": shop})

	if s.uiRedirect != "" {
		c.Redirect(http.StatusFound, s.uiRedirect+"?shop="+shop)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true, "shop": shop})
}

type stateEntry struct {
	shop string
	exp  time.Time
}

type stateStore struct {
	items map[string]stateEntry
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]stateEntry)}
}

func (s *stateStore) put(state, shop string, exp time.Time) {
	s.mu.Lock()
	s.items[state] = stateEntry{shop: shop, exp: exp}
	s.mu.Unlock()
}

// consume removes the state and reports whether it was valid for the shop.
func (s *stateStore) consume(state, shop string) bool {
	s.mu.Lock()
	entry, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	if entry.shop != shop {
		return false
	}
	return !time.Now().After(entry.exp)
}
