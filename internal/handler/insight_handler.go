package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"postpulse/internal/insight"
	"postpulse/internal/model"
	"postpulse/pkg/embed"

	"github.com/gin-gonic/gin"
)

type InsightLookup interface {
	Lookup(params insight.LookupParams) (*model.TopicInsight, bool, error)
}

type CacheAdmin interface {
	SweepExpired() (int64, error)
	GetStats() (*model.CacheStats, error)
}

type InsightHandler struct {
	service InsightLookup
	cache   CacheAdmin
}

func NewInsightHandler(service InsightLookup, cache CacheAdmin) *InsightHandler {
	return &InsightHandler{service: service, cache: cache}
}

func (h *InsightHandler) GetInsight(c *gin.Context) {
	var req InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, cached, err := h.service.Lookup(insight.LookupParams{
		Topic:         req.Topic,
		MaxPosts:      req.MaxPosts,
		TimeframeDays: req.TimeframeDays,
		ForceRefresh:  req.ForceRefresh,
	})

	if errors.Is(err, insight.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errors.Is(err, embed.ErrProvider) {
		slog.Error("embedding provider failure during lookup", "error", err, "topic", req.Topic)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Embedding provider unavailable"})
		return
	}

	if err != nil {
		slog.Error("error computing insight", "error", err, "topic", req.Topic)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toInsightResponse(result, cached))
}

func (h *InsightHandler) GetCacheStats(c *gin.Context) {
	stats, err := h.cache.GetStats()
	if err != nil {
		slog.Error("error fetching cache stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, CacheStatsResponse{
		EntryCount: stats.EntryCount,
		TotalHits:  stats.TotalHits,
	})
}

func (h *InsightHandler) SweepCache(c *gin.Context) {
	deleted, err := h.cache.SweepExpired()
	if err != nil {
		slog.Error("error sweeping cache", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("cache sweep complete", "deleted", deleted)
	c.JSON(http.StatusOK, SweepResponse{Deleted: deleted})
}

func (h *InsightHandler) GetHealth(c *gin.Context) {
	_, err := h.cache.GetStats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toInsightResponse(i *model.TopicInsight, cached bool) InsightResponse {
	return InsightResponse{
		Topic:           i.Topic,
		RelatedPostIDs:  i.RelatedPostIDs,
		TopPerformerIDs: i.TopPerformerIDs,
		ContentPatterns: ContentPatternsResponse{
			AvgWordCount:       i.ContentPatterns.AvgWordCount,
			OpeningPhrases:     i.ContentPatterns.OpeningPhrases,
			StructuralTags:     i.ContentPatterns.StructuralTags,
			EngagementTriggers: i.ContentPatterns.EngagementTriggers,
		},
		VoicePatterns: VoicePatternsResponse{
			DominantTone:       i.VoicePatterns.DominantTone,
			AuthenticityScore:  i.VoicePatterns.AuthenticityScore,
			AuthorityScore:     i.VoicePatterns.AuthorityScore,
			VulnerabilityScore: i.VoicePatterns.VulnerabilityScore,
		},
		PerformanceContext: PerformanceContextResponse{
			AvgViralScore:  i.PerformanceContext.AvgViralScore,
			TopViralScore:  i.PerformanceContext.TopViralScore,
			CandidateCount: i.PerformanceContext.CandidateCount,
		},
		ConfidenceLevel: i.ConfidenceLevel,
		CreatedAt:       i.CreatedAt.Format(time.RFC3339),
		ExpiresAt:       i.ExpiresAt.Format(time.RFC3339),
		Cached:          cached,
	}
}
