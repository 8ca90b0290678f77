package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"jsoncompare/internal/queue"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Swapped out in tests.
var (
	enqueueComparison = queue.EnqueueComparison
	taskStatus        = queue.GetTaskStatus
)

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func getPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func getPageSize(c echo.Context) int {
	pageSize, err := strconv.Atoi(c.QueryParam("page_size"))
	if err != nil || pageSize < 1 {
		return defaultPageSize
	}
	if pageSize > maxPageSize {
		return maxPageSize
	}
	return pageSize
}

func getID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func pagination(page, pageSize, total int) map[string]int {
	return map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	}
}

// bindAndValidate binds the request body into req and runs the echo
// validator. The returned error is safe to show to the client.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.New("invalid request")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
