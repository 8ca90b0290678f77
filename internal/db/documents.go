package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jsoncompare/internal/tree"
)

var ErrDocumentNotFound = errors.New("document not found")

type Document struct {
	ID        int64           `db:"id" json:"id"`
	Ref       string          `db:"ref" json:"ref"`
	Name      string          `db:"name" json:"name"`
	Content   json.RawMessage `db:"content" json:"content,omitempty"`
	Hash      string          `db:"hash" json:"hash"`
	LeafCount int             `db:"leaf_count" json:"leaf_count"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Tree decodes the stored content.
func (d *Document) Tree() (*tree.Node, error) {
	node, err := tree.Parse(d.Content)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", d.ID, err)
	}
	return node, nil
}

type DocumentPage struct {
	Data       []Document     `json:"data"`
	Pagination map[string]int `json:"pagination"`
}

func InsertDocument(doc *Document) error {
	err := DB.QueryRow(`
		INSERT INTO documents (ref, name, content, hash, leaf_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, doc.Ref, doc.Name, string(doc.Content), doc.Hash, doc.LeafCount).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	slog.Info("Created new document", "document_id", doc.ID, "ref", doc.Ref, "hash", doc.Hash)
	return nil
}

// FindDocumentByHash returns nil, nil when no document has this hash.
func FindDocumentByHash(hash string) (*Document, error) {
	var doc Document
	err := DB.Get(&doc, `
		SELECT id, ref, name, content, hash, leaf_count, created_at
		FROM documents
		WHERE hash = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document by hash: %w", err)
	}
	return &doc, nil
}

func GetDocument(id int64) (*Document, error) {
	var doc Document
	err := DB.Get(&doc, `
		SELECT id, ref, name, content, hash, leaf_count, created_at
		FROM documents
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	return &doc, nil
}

// ListDocuments pages through documents newest first, without content.
func ListDocuments(page, pageSize int) (DocumentPage, error) {
	offset := (page - 1) * pageSize

	var total int
	if err := DB.Get(&total, `SELECT COUNT(*) FROM documents`); err != nil {
		slog.Error("failed to count documents", "error", err)
		return DocumentPage{}, fmt.Errorf("count documents: %w", err)
	}

	docs := make([]Document, 0)
	err := DB.Select(&docs, `
		SELECT id, ref, name, hash, leaf_count, created_at
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	if err != nil {
		slog.Error("failed to fetch documents", "error", err)
		return DocumentPage{}, fmt.Errorf("list documents: %w", err)
	}

	return DocumentPage{
		Data: docs,
		Pagination: map[string]int{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	}, nil
}

// DeleteDocument removes a document; its comparisons go with it.
func DeleteDocument(id int64) error {
	result, err := DB.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document rows affected: %w", err)
	}
	if rows == 0 {
		return ErrDocumentNotFound
	}

	slog.Info("Deleted document", "document_id", id)
	return nil
}
