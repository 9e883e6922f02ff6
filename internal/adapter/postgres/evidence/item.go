package evidence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/compliance-backend/internal/adapter/postgres"
	"github.com/careops/compliance-backend/internal/domain"
)

// ItemRepo provides evidence item persistence and the item-to-request lookup
// the document review flow needs.
type ItemRepo struct {
	pool *pgxpool.Pool
}

// NewItemRepo creates a new evidence item repository.
func NewItemRepo(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

const insertItemSQL = `
INSERT INTO evidence_items (
    id, request_id, kind, file_ref, link_url,
    uploader_id, submitter_name, submitter_email, submitted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getItemSQL = `
SELECT id, request_id, kind, file_ref, link_url,
       uploader_id, submitter_name, submitter_email, submitted_at
FROM evidence_items
WHERE id = $1`

const listItemsByRequestSQL = `
SELECT id, request_id, kind, file_ref, link_url,
       uploader_id, submitter_name, submitter_email, submitted_at
FROM evidence_items
WHERE request_id = $1
ORDER BY submitted_at`

const getRequestByItemSQL = `
SELECT r.id, r.company_id, r.finding_id, r.audit_id, r.indicator_id, r.title,
       r.description, r.status, r.due_date, r.public_token,
       r.portal_password_hash, r.created_by, r.created_at, r.updated_at
FROM evidence_requests r
JOIN evidence_items i ON i.request_id = r.id
WHERE i.id = $1`

// Create inserts an evidence item.
func (r *ItemRepo) Create(ctx context.Context, item *domain.EvidenceItem) (*domain.EvidenceItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertItemSQL,
		item.ID, item.RequestID, item.Kind, item.FileRef, item.LinkURL,
		item.UploaderID, item.SubmitterName, item.SubmitterEmail,
		item.SubmittedAt)
	if err != nil {
		return nil, postgres.MapError(err, "evidence item", item.ID)
	}

	return item, nil
}

// GetItem returns an evidence item by primary key.
func (r *ItemRepo) GetItem(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	item, err := scanItem(q.QueryRow(ctx, getItemSQL, itemID))
	if err != nil {
		return nil, postgres.MapError(err, "evidence item", itemID)
	}

	return item, nil
}

// ListByRequest returns the request's items in submission order.
func (r *ItemRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.EvidenceItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listItemsByRequestSQL, requestID)
	if err != nil {
		return nil, fmt.Errorf("list evidence items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.EvidenceItem, error) {
		var item domain.EvidenceItem
		err := row.Scan(
			&item.ID, &item.RequestID, &item.Kind, &item.FileRef,
			&item.LinkURL, &item.UploaderID, &item.SubmitterName,
			&item.SubmitterEmail, &item.SubmittedAt)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan evidence items: %w", err)
	}

	return items, nil
}

// GetRequestByItem returns the request an item was submitted against.
func (r *ItemRepo) GetRequestByItem(ctx context.Context, itemID uuid.UUID) (*domain.EvidenceRequest, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	req, err := scanRequest(q.QueryRow(ctx, getRequestByItemSQL, itemID))
	if err != nil {
		return nil, postgres.MapError(err, "evidence request", itemID)
	}

	return req, nil
}

func scanItem(row pgx.Row) (*domain.EvidenceItem, error) {
	var item domain.EvidenceItem
	err := row.Scan(
		&item.ID, &item.RequestID, &item.Kind, &item.FileRef, &item.LinkURL,
		&item.UploaderID, &item.SubmitterName, &item.SubmitterEmail,
		&item.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
