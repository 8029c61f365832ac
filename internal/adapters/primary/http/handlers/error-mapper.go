package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"model-serving-api/internal/core/domain"

	"github.com/gin-gonic/gin"
)

// mapDomainError translates core errors to wire responses. Validation
// reasons are surfaced verbatim; execution and unexpected load failures
// collapse to a generic message so internals never leak to callers.
func mapDomainError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		notLoadedErr  *domain.VersionNotLoadedError
		loadErr       *domain.LoadError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrMissingFeatures):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.As(err, &notLoadedErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.As(err, &loadErr):
		// A load against a missing artifact file is a caller mistake; any
		// other load failure is an internal problem.
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})

	case errors.Is(err, domain.ErrAuditDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
