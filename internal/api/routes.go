// Package api is the optional HTTP introspection surface: scan/crawler
// progress, validation status, and recovered-key listing over the same
// gin-gonic/gin + gorilla/websocket stack the teacher used for its
// CoinJoin dashboard, generalized to Randstorm / nonce-reuse events.
package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/5n10sndkts/forensic-scanner/internal/dispatcher"
	"github.com/5n10sndkts/forensic-scanner/internal/noncecrawl"
	"github.com/5n10sndkts/forensic-scanner/internal/vault"
)

// APIHandler wires whichever of the long-running components are active in
// the current process. Any of these may be nil — a serve invocation with
// no --targets has no dispatcher, one with no VAULT_DATABASE_URL has no
// store — and every handler degrades to 503 rather than a nil panic.
type APIHandler struct {
	store      *vault.Store
	dispatcher *dispatcher.Dispatcher
	crawler    *noncecrawl.Crawler
	wsHub      *Hub
}

// SetupRouter builds the Gin engine. Any of store/disp/crawler may be nil.
func SetupRouter(store *vault.Store, disp *dispatcher.Dispatcher, crawler *noncecrawl.Crawler, wsHub *Hub) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	h := &APIHandler{store: store, dispatcher: disp, crawler: crawler, wsHub: wsHub}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", h.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
		pub.GET("/scan/progress", h.handleScanProgress)
		pub.GET("/crawler/progress", h.handleCrawlerProgress)
	}

	protected := r.Group("/api/v1")
	protected.Use(AuthMiddleware())
	protected.Use(NewRateLimiter(30, 5).Middleware())
	{
		protected.GET("/recovered", h.handleListRecovered)
		protected.POST("/recovered/:address/access", h.handleRecordAccess)
	}

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "operational",
		"engine":  "forensic-scanner",
		"vault":   h.store != nil,
		"scan":    h.dispatcher != nil,
		"crawler": h.crawler != nil,
	})
}

func (h *APIHandler) handleScanProgress(c *gin.Context) {
	if h.dispatcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no scan running in this process"})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Progress())
}

func (h *APIHandler) handleCrawlerProgress(c *gin.Context) {
	if h.crawler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no crawler running in this process"})
		return
	}
	c.JSON(http.StatusOK, h.crawler.Progress())
}

// handleListRecovered lists confirmed targets from the vault.
// GET /api/v1/recovered?vulnClass=randstorm&limit=50&offset=0
func (h *APIHandler) handleListRecovered(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vault not connected"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	vulnClass := c.Query("vulnClass")

	targets, err := h.store.QueryByClass(c.Request.Context(), vulnClass, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "querying vault", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":   targets,
		"limit":  limit,
		"offset": offset,
	})
}

// handleRecordAccess bumps a target's access counter — used when an
// operator pulls a recovered key via the API rather than list-recovered-keys.
func (h *APIHandler) handleRecordAccess(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vault not connected"})
		return
	}
	address := c.Param("address")
	if err := h.store.RecordAccess(c.Request.Context(), address, time.Now().Unix()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recording access", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded", "address": address})
}
