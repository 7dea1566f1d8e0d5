package main

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
)

// combinationRequest is the body of POST /combinations.
type combinationRequest struct {
	A      ElementID `json:"a" binding:"required"`
	B      ElementID `json:"b" binding:"required"`
	Result ElementID `json:"result" binding:"required"`
}

// emojiRequest is the body of PUT /emojis/:index.
type emojiRequest struct {
	Emoji string `json:"emoji"`
}

// adminAuth rejects requests without the bearer token. An empty token disables the check.
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// registerAdminRoutes mounts the content API on g.
func registerAdminRoutes(g *gin.RouterGroup, store *ContentStore, ledger *DiscoveryLedger) {
	g.GET("/elements", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Elements())
	})

	g.POST("/elements", func(c *gin.Context) {
		var e Element
		if err := c.ShouldBindJSON(&e); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		created, err := store.CreateElement(e)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	g.PUT("/elements/:id", func(c *gin.Context) {
		id, ok := elementParam(c)
		if !ok {
			return
		}
		var e Element
		if err := c.ShouldBindJSON(&e); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updated, err := store.UpdateElement(id, e)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	g.DELETE("/elements/:id", func(c *gin.Context) {
		id, ok := elementParam(c)
		if !ok {
			return
		}
		if err := store.DeleteElement(id); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	g.GET("/combinations", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Combinations())
	})

	g.POST("/combinations", func(c *gin.Context) {
		var req combinationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		combo, err := store.PutCombination(req.A, req.B, req.Result)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, combo)
	})

	g.DELETE("/combinations/:key", func(c *gin.Context) {
		if err := store.DeleteCombination(c.Param("key")); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	g.GET("/emojis", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Emojis())
	})

	g.GET("/emojis/:index", func(c *gin.Context) {
		idx, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad emoji index"})
			return
		}
		glyph := store.Emoji(idx)
		if glyph == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"index": idx, "emoji": glyph})
	})

	g.PUT("/emojis/:index", func(c *gin.Context) {
		idx, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad emoji index"})
			return
		}
		var req emojiRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.SetEmoji(idx, req.Emoji); err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"index": idx, "emoji": req.Emoji})
	})

	g.GET("/integrity", func(c *gin.Context) {
		broken := store.BrokenCombinations()
		if broken == nil {
			broken = []BrokenCombination{}
		}
		c.JSON(http.StatusOK, gin.H{"broken": broken, "count": len(broken)})
	})

	g.POST("/integrity/cleanup", func(c *gin.Context) {
		n, err := store.CleanupBrokenCombinations()
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": n})
	})

	g.GET("/discoveries", func(c *gin.Context) {
		c.JSON(http.StatusOK, ledger.Snapshot())
	})
}

func elementParam(c *gin.Context) (ElementID, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad element id"})
		return 0, false
	}
	return ElementID(id), true
}

// writeStoreError maps content store errors onto HTTP statuses.
func writeStoreError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrDuplicateElement):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidElement), errors.Is(err, ErrUnknownElement), errors.Is(err, ErrInvalidCombination):
		status = http.StatusBadRequest
	default:
		level.Error(logger).Log("msg", "content store failure", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
