package controller

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/config"
	"assessly-backend/internal/repository"
)

// Pager reads page, pageSize and q from the query string.
type Pager struct {
	PageSize    int
	MaxPageSize int
}

func NewPager(cfg config.PaginationConfig) Pager {
	return Pager{PageSize: cfg.PageSize, MaxPageSize: cfg.MaxPageSize}
}

func (p Pager) Params(c *gin.Context) repository.ListParams {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.Query("pageSize"))
	if size < 1 {
		size = p.PageSize
	}
	if p.MaxPageSize > 0 && size > p.MaxPageSize {
		size = p.MaxPageSize
	}
	return repository.ListParams{Page: page, PageSize: size, Query: strings.TrimSpace(c.Query("q"))}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// optionalUint parses an optional numeric query value; ok is false on a
// malformed value.
func optionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return nil, false
	}
	u := uint(v)
	return &u, true
}

func optionalBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, "invalid "+name)
		return nil, false
	}
	return &v, true
}
