package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow-api/internal/constants"
)

// PageParams holds offset/limit pagination parameters
type PageParams struct {
	Skip  int
	Limit int
}

// GetPageParams extracts and clamps pagination parameters from the request.
// The limit is capped server-side to keep response sizes bounded.
func GetPageParams(c *gin.Context) PageParams {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageLimit)))

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = constants.DefaultPageLimit
	}
	if limit > constants.MaxPageLimit {
		limit = constants.MaxPageLimit
	}

	return PageParams{
		Skip:  skip,
		Limit: limit,
	}
}
