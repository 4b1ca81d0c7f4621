package postgres

import (
	"context"
	"fmt"
	"strings"

	"numrent-admin-core/internal/core/domain"
	"numrent-admin-core/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// AuditRepo implements ports.AuditRepository. The seq column is a
// bigserial assigned by the database and breaks ordering ties between
// records sharing a created_at timestamp.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

const auditInsert = `INSERT INTO audit_records (id, action, actor_id, target_id, before_state, after_state, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING seq`

// Create appends a record inside the caller's transaction.
func (r *AuditRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.AuditRecord) error {
	err := tx.QueryRow(ctx, auditInsert,
		rec.ID, rec.Action, rec.ActorID, rec.TargetID,
		rec.BeforeState, rec.AfterState, rec.CreatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// Append writes a record directly against the pool, for actions whose
// mutation happens outside this service's database.
func (r *AuditRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	err := r.pool.QueryRow(ctx, auditInsert,
		rec.ID, rec.Action, rec.ActorID, rec.TargetID,
		rec.BeforeState, rec.AfterState, rec.CreatedAt,
	).Scan(&rec.Seq)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

// Query fetches audit records with filtering and pagination, newest first.
func (r *AuditRepo) Query(ctx context.Context, q ports.AuditQuery) ([]domain.AuditRecord, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if q.ActorID != nil {
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", argIdx))
		args = append(args, *q.ActorID)
		argIdx++
	}
	if q.TargetID != nil {
		conditions = append(conditions, fmt.Sprintf("target_id = $%d", argIdx))
		args = append(args, *q.TargetID)
		argIdx++
	}
	if q.Action != nil {
		conditions = append(conditions, fmt.Sprintf("action = $%d", argIdx))
		args = append(args, *q.Action)
		argIdx++
	}
	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *q.Since)
		argIdx++
	}
	if q.Until != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *q.Until)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_records %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit records: %w", err)
	}

	offset := (q.Page - 1) * q.PageSize
	dataQuery := fmt.Sprintf(`SELECT id, action, actor_id, target_id, before_state, after_state, created_at, seq
		FROM audit_records %s ORDER BY created_at DESC, seq DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, q.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		rec := domain.AuditRecord{}
		err := rows.Scan(
			&rec.ID, &rec.Action, &rec.ActorID, &rec.TargetID,
			&rec.BeforeState, &rec.AfterState, &rec.CreatedAt, &rec.Seq,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate audit record rows: %w", err)
	}
	return records, total, nil
}
