package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"jsoncompare/internal/compare"
	"jsoncompare/internal/report"
	"jsoncompare/internal/tree"
)

type CompareRequest struct {
	Left  json.RawMessage `json:"left" validate:"required,jsondoc"`
	Right json.RawMessage `json:"right" validate:"required,jsondoc"`
	Mode  string          `json:"mode" validate:"omitempty,oneof=structure content both"`
}

// CompareDocuments compares two inline documents and returns one report per
// mode. ?format=text renders the tabular text report instead of JSON.
func CompareDocuments(c echo.Context) error {
	var req CompareRequest
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	left, err := tree.Parse(req.Left)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid left document"})
	}
	right, err := tree.Parse(req.Right)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid right document"})
	}

	results, err := compare.Run(req.Mode, left, right)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if c.QueryParam("format") == "text" {
		var buf bytes.Buffer
		for _, res := range results {
			if err := report.WriteText(&buf, res); err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to render report"})
			}
		}
		return c.String(http.StatusOK, buf.String())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"results": report.FromResults(results),
	})
}
