package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/recurrence"
)

func (r *Repository) GetShiftInstancesByMonth(clientID int64, month recurrence.Month) ([]*domain.ShiftInstance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			si.id,
			si.client_id,
			si.date,
			si.start_time,
			si.end_time,
			si.required_staff_count,
			si.two_person_work,
			si.service_code,
			si.created_at,
			sis.slot_no,
			sis.staff_id,
			sis.attended,
			sis.role_code
		FROM shift_instances si
		LEFT JOIN shift_instance_staff_slots sis ON si.id = sis.instance_id
		WHERE si.client_id = $1 AND si.date >= $2 AND si.date < $3
		ORDER BY si.date, si.start_time, si.id, sis.slot_no
	`

	rows, err := r.dbpool.QueryContext(ctx, query, clientID, month.First(), month.Next().First())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instances := make([]*domain.ShiftInstance, 0)
	instancesMap := make(map[int64]*domain.ShiftInstance)

	for rows.Next() {
		var row struct {
			ID                 int64
			ClientID           int64
			Date               time.Time
			StartTime          string
			EndTime            string
			RequiredStaffCount int32
			TwoPersonWork      bool
			ServiceCode        string
			CreatedAt          time.Time

			SlotNo   sql.NullInt32
			StaffID  sql.NullInt64
			Attended sql.NullBool
			RoleCode sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.ClientID,
			&row.Date,
			&row.StartTime,
			&row.EndTime,
			&row.RequiredStaffCount,
			&row.TwoPersonWork,
			&row.ServiceCode,
			&row.CreatedAt,
			&row.SlotNo,
			&row.StaffID,
			&row.Attended,
			&row.RoleCode,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		inst, exists := instancesMap[row.ID]
		if !exists {
			// 第一次查到这条实例，需要初始化
			inst = &domain.ShiftInstance{
				ID:                 row.ID,
				ClientID:           row.ClientID,
				Date:               row.Date,
				StartTime:          row.StartTime,
				EndTime:            row.EndTime,
				RequiredStaffCount: row.RequiredStaffCount,
				StaffSlots:         make([]domain.StaffSlot, 0),
				TwoPersonWork:      row.TwoPersonWork,
				ServiceCode:        row.ServiceCode,
				CreatedAt:          row.CreatedAt,
			}
			instancesMap[row.ID] = inst
			instances = append(instances, inst)
		}

		if !row.SlotNo.Valid {
			// 这条实例没有任何员工坑位
			continue
		}

		slot := domain.StaffSlot{
			Attended: row.Attended.Bool,
			RoleCode: row.RoleCode.String,
		}
		if row.StaffID.Valid {
			staffID := row.StaffID.Int64
			slot.StaffID = &staffID
		}
		inst.StaffSlots = append(inst.StaffSlots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instances, nil
}

// MaterializeMonth 把客户当月命中的班型候选批量插成实例，返回插入条数。
// 整个写入在一个事务里完成。
//
// 策略语义：delete_month_insert 先清空当月再全量插入；
// skip_conflict 和 overwrite_only 都只插入与已有实例不冲突的候选，
// overwrite_only 对已有行的字段覆盖不在这里发生（见 DESIGN.md 的遗留问题说明）。
func (r *Repository) MaterializeMonth(clientID int64, month recurrence.Month, policy domain.ReconcilePolicy) (int, error) {
	templates, err := r.GetActiveWeeklyTemplates(clientID)
	if err != nil {
		return 0, err
	}

	cands := recurrence.Evaluate(templates, month, true)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	from := month.First()
	to := month.Next().First()

	if policy == domain.PolicyDeleteMonthInsert {
		query := `
			DELETE FROM shift_instances
			WHERE client_id = $1 AND date >= $2 AND date < $3
		`
		if _, err := tx.ExecContext(ctx, query, clientID, from, to); err != nil {
			return 0, err
		}
	}

	// 冲突判定只需要当月已有实例的时间窗（delete_month_insert 下已经清空）
	type window struct {
		date  string
		start string
		end   string
	}
	existing := make([]window, 0)

	if policy != domain.PolicyDeleteMonthInsert {
		query := `
			SELECT date, start_time, end_time
			FROM shift_instances
			WHERE client_id = $1 AND date >= $2 AND date < $3
		`
		rows, err := tx.QueryContext(ctx, query, clientID, from, to)
		if err != nil {
			return 0, err
		}

		for rows.Next() {
			var date time.Time
			var w window
			if err := rows.Scan(&date, &w.start, &w.end); err != nil {
				rows.Close()
				return 0, err
			}
			w.date = date.Format("2006-01-02")
			existing = append(existing, w)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return 0, err
		}
		rows.Close()
	}

	inserted := 0
	for _, c := range cands {
		conflict := false
		candDate := c.Date.Format("2006-01-02")
		for _, w := range existing {
			if w.date != candDate {
				continue
			}
			ov, err := recurrence.Overlaps(c.StartTime, c.EndTime, w.start, w.end)
			if err != nil {
				return 0, err
			}
			if ov {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		query := `
			INSERT INTO shift_instances (
				client_id, date, start_time, end_time, required_staff_count,
				two_person_work, service_code
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		params := []any{
			clientID, c.Date, c.StartTime, c.EndTime, c.RequiredStaffCount,
			c.TwoPersonWork, c.ServiceCode,
		}
		var instanceID int64
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&instanceID); err != nil {
			return 0, err
		}

		for i, slot := range c.StaffSlots {
			query := `
				INSERT INTO shift_instance_staff_slots (instance_id, slot_no, staff_id, attended, role_code)
				VALUES ($1, $2, $3, $4, $5)
			`
			if _, err := tx.ExecContext(ctx, query, instanceID, i+1, slot.StaffID, slot.Attended, slot.RoleCode); err != nil {
				return 0, err
			}
		}

		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

// DeleteShiftInstances 一条语句删掉一批实例，单批内整体成败。
// 坑位子表靠外键级联删除。
func (r *Repository) DeleteShiftInstances(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	placeholders := make([]string, len(ids))
	params := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		params[i] = id
	}

	query := fmt.Sprintf(`DELETE FROM shift_instances WHERE id IN (%s)`, strings.Join(placeholders, ", "))

	if _, err := r.dbpool.ExecContext(ctx, query, params...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftInstance(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM shift_instances WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
