package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"jsoncompare/internal/db"
	"jsoncompare/internal/flatten"
	"jsoncompare/internal/tree"
	"jsoncompare/utils"
)

type StoreDocumentRequest struct {
	Name    string          `json:"name" validate:"max=255"`
	Content json.RawMessage `json:"content" validate:"required,jsondoc"`
}

// StoreDocument saves a document. Posting content that differs from an
// existing document only in whitespace returns the existing one. Key order
// and duplicate keys count, since flattening depends on them.
func StoreDocument(c echo.Context) error {
	var req StoreDocumentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	node, err := tree.Parse(req.Content)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document"})
	}

	hash := tree.Hash(node)
	existing, err := db.FindDocumentByHash(hash)
	if err != nil {
		slog.Error("failed to look up document", "error", err, "hash", hash)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store document"})
	}
	if existing != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"document": existing,
			"created":  false,
		})
	}

	leaves, err := flatten.New(nil).Flatten(node)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document"})
	}

	ref, err := utils.NewDocumentRef()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store document"})
	}

	doc := &db.Document{
		Ref:       ref,
		Name:      req.Name,
		Content:   req.Content,
		Hash:      hash,
		LeafCount: leaves.Len(),
	}
	if err := db.InsertDocument(doc); err != nil {
		slog.Error("failed to insert document", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store document"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"document": doc,
		"created":  true,
	})
}

func ListDocuments(c echo.Context) error {
	page, err := db.ListDocuments(getPage(c), getPageSize(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve documents"})
	}
	return c.JSON(http.StatusOK, page)
}

func GetDocument(c echo.Context) error {
	id, ok := getID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document id"})
	}

	doc, err := db.GetDocument(id)
	if errors.Is(err, db.ErrDocumentNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
	}
	if err != nil {
		slog.Error("failed to get document", "error", err, "document_id", id)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve document"})
	}

	return c.JSON(http.StatusOK, doc)
}

func DeleteDocument(c echo.Context) error {
	id, ok := getID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document id"})
	}

	err := db.DeleteDocument(id)
	if errors.Is(err, db.ErrDocumentNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
	}
	if err != nil {
		slog.Error("failed to delete document", "error", err, "document_id", id)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete document"})
	}

	return c.NoContent(http.StatusNoContent)
}
