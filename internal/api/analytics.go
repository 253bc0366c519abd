package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func (r *Router) dailyBreakdown(c *gin.Context) {
	dateFrom, err := time.Parse(dateLayout, c.Query("date_from"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": "date_from must be a YYYY-MM-DD date"})
		return
	}
	dateTo, err := time.Parse(dateLayout, c.Query("date_to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": "date_to must be a YYYY-MM-DD date"})
		return
	}

	stats, err := r.analytics.DailyBreakdown(c.Request.Context(), dateFrom, dateTo)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
