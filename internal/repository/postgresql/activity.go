package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haulpoint/haulpoint-backend-go/internal/domain/activity"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/database"
	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type activityRepositoryImpl struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) activity.ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

func (r *activityRepositoryImpl) Record(ctx context.Context, e activity.Entry) error {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = newID()
	}
	props := e.Properties
	if props == nil {
		props = map[string]interface{}{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("failed to marshal activity properties: %w", err)
	}

	query := `
		INSERT INTO activity_logs (
			id, company_id, actor_kind, actor_id, action, subject_type, subject_id, properties, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = q.Exec(ctx, query,
		e.ID, e.CompanyID, e.ActorKind, e.ActorID, e.Action, e.SubjectType, e.SubjectID, propsJSON, e.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func scanActivity(row pgx.Row) (activity.Entry, error) {
	var e activity.Entry
	var propsJSON []byte
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.ActorKind, &e.ActorID, &e.Action, &e.SubjectType, &e.SubjectID,
		&propsJSON, &e.IPAddress, &e.CreatedAt,
	)
	if err != nil {
		return e, err
	}
	if len(propsJSON) > 0 {
		if err := json.Unmarshal(propsJSON, &e.Properties); err != nil {
			return e, fmt.Errorf("failed to unmarshal activity properties: %w", err)
		}
	}
	return e, nil
}

func (r *activityRepositoryImpl) List(ctx context.Context, companyID string, filter activity.ListFilter, page pagination.Params) ([]activity.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	w := newWhere("company_id = ?", companyID)
	if filter.Action != nil {
		w.add("action = ?", *filter.Action)
	}
	if filter.SubjectType != nil {
		w.add("subject_type = ?", *filter.SubjectType)
	}
	if filter.SubjectID != nil {
		w.add("subject_id = ?", *filter.SubjectID)
	}

	items, total, err := fetchPage(ctx, q, listQuery{
		columns: `id, company_id, actor_kind, actor_id, action, subject_type, subject_id,
			properties, ip_address, created_at`,
		from:     "activity_logs",
		where:    w,
		tiebreak: "id DESC",
	}, page, scanActivity)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}
	return items, total, nil
}
