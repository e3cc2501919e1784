package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/sca-inventory-backend/internal/domain"
	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/platform/apierr"
)

// pathID parses the :id route param. It writes a 400 and returns false when
// the id is malformed.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Invalid("invalid_id", "malformed id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondErr(c, apierr.Invalid("invalid_request", "%v", err))
		return false
	}
	return true
}

func queryUUID(c *gin.Context, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Invalid("invalid_"+name, "malformed %s %q", name, raw)
	}
	return id, nil
}

func queryDate(c *gin.Context, name string) (types.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return types.Date{}, nil
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return types.Date{}, apierr.Invalid("invalid_"+name, "%s must be YYYY-MM-DD", name)
	}
	return d, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return time.Time{}, apierr.Invalid("invalid_"+name, "%s must be RFC 3339 or YYYY-MM-DD", name)
	}
	return d.Time(), nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierr.Invalid("invalid_"+name, "%s must be a non-negative integer", name)
	}
	return n, nil
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	return v
}
