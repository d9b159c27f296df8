package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

// weeklyTemplateSelect 是班型查询的公共部分。
// 第 N 周集合和员工坑位各自是子表，LEFT JOIN 会产生笛卡尔积，
// 扫描时需要按 (班型, nth) 和 (班型, slot_no) 去重。
const weeklyTemplateSelect = `
	SELECT
		wt.id,
		wt.client_id,
		wt.weekday,
		wt.start_time,
		wt.end_time,
		wt.required_staff_count,
		wt.is_biweekly,
		wt.effective_from,
		wt.effective_to,
		wt.is_active,
		wt.two_person_work,
		wt.service_code,
		wt.created_at,
		wt.version,
		wtn.nth,
		wts.slot_no,
		wts.staff_id,
		wts.attended,
		wts.role_code
	FROM weekly_templates wt
	LEFT JOIN weekly_template_nth_weeks wtn ON wt.id = wtn.template_id
	LEFT JOIN weekly_template_staff_slots wts ON wt.id = wts.template_id
`

func (r *Repository) queryWeeklyTemplates(query string, args ...any) ([]*domain.WeeklyTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.WeeklyTemplate, 0)
	templatesMap := make(map[int64]*domain.WeeklyTemplate)
	nthSeen := make(map[int64]map[int32]bool)
	slotSeen := make(map[int64]map[int32]bool)

	for rows.Next() {
		var row struct {
			ID                 int64
			ClientID           int64
			Weekday            int32
			StartTime          string
			EndTime            string
			RequiredStaffCount int32
			IsBiweekly         bool
			EffectiveFrom      sql.NullTime
			EffectiveTo        sql.NullTime
			IsActive           bool
			TwoPersonWork      bool
			ServiceCode        string
			CreatedAt          time.Time
			Version            int32

			Nth      sql.NullInt32
			SlotNo   sql.NullInt32
			StaffID  sql.NullInt64
			Attended sql.NullBool
			RoleCode sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.ClientID,
			&row.Weekday,
			&row.StartTime,
			&row.EndTime,
			&row.RequiredStaffCount,
			&row.IsBiweekly,
			&row.EffectiveFrom,
			&row.EffectiveTo,
			&row.IsActive,
			&row.TwoPersonWork,
			&row.ServiceCode,
			&row.CreatedAt,
			&row.Version,
			&row.Nth,
			&row.SlotNo,
			&row.StaffID,
			&row.Attended,
			&row.RoleCode,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		t, exists := templatesMap[row.ID]
		if !exists {
			// 第一次查到这个班型，需要初始化
			t = &domain.WeeklyTemplate{
				ID:                 row.ID,
				ClientID:           row.ClientID,
				Weekday:            row.Weekday,
				StartTime:          row.StartTime,
				EndTime:            row.EndTime,
				RequiredStaffCount: row.RequiredStaffCount,
				NthWeeks:           make([]int32, 0),
				IsBiweekly:         row.IsBiweekly,
				IsActive:           row.IsActive,
				StaffSlots:         make([]domain.StaffSlot, 0),
				TwoPersonWork:      row.TwoPersonWork,
				ServiceCode:        row.ServiceCode,
				CreatedAt:          row.CreatedAt,
				Version:            row.Version,
			}
			if row.EffectiveFrom.Valid {
				from := row.EffectiveFrom.Time
				t.EffectiveFrom = &from
			}
			if row.EffectiveTo.Valid {
				to := row.EffectiveTo.Time
				t.EffectiveTo = &to
			}
			templatesMap[row.ID] = t
			nthSeen[row.ID] = make(map[int32]bool)
			slotSeen[row.ID] = make(map[int32]bool)
			templates = append(templates, t)
		}

		if row.Nth.Valid && !nthSeen[row.ID][row.Nth.Int32] {
			t.NthWeeks = append(t.NthWeeks, row.Nth.Int32)
			nthSeen[row.ID][row.Nth.Int32] = true
		}

		if row.SlotNo.Valid && !slotSeen[row.ID][row.SlotNo.Int32] {
			slot := domain.StaffSlot{
				Attended: row.Attended.Bool,
				RoleCode: row.RoleCode.String,
			}
			if row.StaffID.Valid {
				staffID := row.StaffID.Int64
				slot.StaffID = &staffID
			}
			t.StaffSlots = append(t.StaffSlots, slot)
			slotSeen[row.ID][row.SlotNo.Int32] = true
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) GetWeeklyTemplatesByClientID(clientID int64) ([]*domain.WeeklyTemplate, error) {
	query := weeklyTemplateSelect + `
		WHERE wt.client_id = $1
		ORDER BY wt.id, wtn.nth, wts.slot_no
	`
	return r.queryWeeklyTemplates(query, clientID)
}

func (r *Repository) GetActiveWeeklyTemplates(clientID int64) ([]*domain.WeeklyTemplate, error) {
	query := weeklyTemplateSelect + `
		WHERE wt.client_id = $1 AND wt.is_active = TRUE
		ORDER BY wt.id, wtn.nth, wts.slot_no
	`
	return r.queryWeeklyTemplates(query, clientID)
}

func (r *Repository) GetWeeklyTemplateByID(id int64) (*domain.WeeklyTemplate, error) {
	query := weeklyTemplateSelect + `
		WHERE wt.id = $1
		ORDER BY wtn.nth, wts.slot_no
	`

	templates, err := r.queryWeeklyTemplates(query, id)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, sql.ErrNoRows
	}

	return templates[0], nil
}

func (r *Repository) CreateWeeklyTemplate(t *domain.WeeklyTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO weekly_templates (
			client_id, weekday, start_time, end_time, required_staff_count,
			is_biweekly, effective_from, effective_to, is_active,
			two_person_work, service_code
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, version
	`
	params := []any{
		t.ClientID, t.Weekday, t.StartTime, t.EndTime, t.RequiredStaffCount,
		t.IsBiweekly, t.EffectiveFrom, t.EffectiveTo, t.IsActive,
		t.TwoPersonWork, t.ServiceCode,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&t.ID, &t.CreatedAt, &t.Version); err != nil {
		return err
	}

	if err := insertWeeklyTemplateChildren(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWeeklyTemplate(t *domain.WeeklyTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE weekly_templates
		SET
			weekday = $1,
			start_time = $2,
			end_time = $3,
			required_staff_count = $4,
			is_biweekly = $5,
			effective_from = $6,
			effective_to = $7,
			is_active = $8,
			two_person_work = $9,
			service_code = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING version
	`
	params := []any{
		t.Weekday, t.StartTime, t.EndTime, t.RequiredStaffCount,
		t.IsBiweekly, t.EffectiveFrom, t.EffectiveTo, t.IsActive,
		t.TwoPersonWork, t.ServiceCode, t.ID, t.Version,
	}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&t.Version); err != nil {
		return err
	}

	// 子表直接重建，避免逐条比对
	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_template_nth_weeks WHERE template_id = $1`, t.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_template_staff_slots WHERE template_id = $1`, t.ID); err != nil {
		return err
	}
	if err := insertWeeklyTemplateChildren(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func insertWeeklyTemplateChildren(ctx context.Context, tx *sql.Tx, t *domain.WeeklyTemplate) error {
	for _, nth := range t.NthWeeks {
		query := `
			INSERT INTO weekly_template_nth_weeks (template_id, nth)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, t.ID, nth); err != nil {
			return err
		}
	}

	for i, slot := range t.StaffSlots {
		query := `
			INSERT INTO weekly_template_staff_slots (template_id, slot_no, staff_id, attended, role_code)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, t.ID, i+1, slot.StaffID, slot.Attended, slot.RoleCode); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) DeleteWeeklyTemplate(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM weekly_templates WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
