package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/utils"
)

// parseEffectiveDate 把 YYYY-MM-DD 解析成 UTC 零点，空指针原样返回。
func parseEffectiveDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) CreateWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	var req struct {
		Weekday            int32   `json:"weekday" validate:"gte=0,lte=6"`
		StartTime          string  `json:"startTime" validate:"required"`
		EndTime            string  `json:"endTime" validate:"required"`
		RequiredStaffCount int32   `json:"requiredStaffCount" validate:"required,gte=1"`
		NthWeeks           []int32 `json:"nthWeeks" validate:"omitempty,dive,gte=1,lte=5"`
		IsBiweekly         bool    `json:"isBiweekly"`
		EffectiveFrom      *string `json:"effectiveFrom"`
		EffectiveTo        *string `json:"effectiveTo"`
		StaffSlots         []struct {
			StaffID  *int64 `json:"staffId"`
			RoleCode string `json:"roleCode"`
		} `json:"staffSlots" validate:"max=3,dive"`
		TwoPersonWork bool   `json:"twoPersonWork"`
		ServiceCode   string `json:"serviceCode" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	wt := &domain.WeeklyTemplate{
		ClientID:           client.ID,
		Weekday:            req.Weekday,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		RequiredStaffCount: req.RequiredStaffCount,
		NthWeeks:           req.NthWeeks,
		IsBiweekly:         req.IsBiweekly,
		IsActive:           true,
		TwoPersonWork:      req.TwoPersonWork,
		ServiceCode:        req.ServiceCode,
	}

	var err error
	if wt.EffectiveFrom, err = parseEffectiveDate(req.EffectiveFrom); err != nil {
		h.errorResponse(w, r, "生效开始日期格式错误，应为 YYYY-MM-DD")
		return
	}
	if wt.EffectiveTo, err = parseEffectiveDate(req.EffectiveTo); err != nil {
		h.errorResponse(w, r, "生效结束日期格式错误，应为 YYYY-MM-DD")
		return
	}

	for _, slot := range req.StaffSlots {
		wt.StaffSlots = append(wt.StaffSlots, domain.StaffSlot{
			StaffID:  slot.StaffID,
			RoleCode: slot.RoleCode,
		})
	}

	if err := utils.ValidateWeeklyTemplate(wt); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWeeklyTemplate(wt); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班型成功", wt)
}

func (h *Handler) GetClientWeeklyTemplates(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	wts, err := h.repository.GetWeeklyTemplatesByClientID(client.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取客户班型成功", wts)
}

func (h *Handler) GetWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	wt := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

	h.successResponse(w, r, "获取班型成功", wt)
}

func (h *Handler) UpdateWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	wt := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

	var req struct {
		Weekday            *int32   `json:"weekday"`
		StartTime          *string  `json:"startTime"`
		EndTime            *string  `json:"endTime"`
		RequiredStaffCount *int32   `json:"requiredStaffCount"`
		NthWeeks           *[]int32 `json:"nthWeeks"`
		IsBiweekly         *bool    `json:"isBiweekly"`
		EffectiveFrom      *string  `json:"effectiveFrom"`
		EffectiveTo        *string  `json:"effectiveTo"`
		IsActive           *bool    `json:"isActive"`
		StaffSlots         *[]struct {
			StaffID  *int64 `json:"staffId"`
			Attended bool   `json:"attended"`
			RoleCode string `json:"roleCode"`
		} `json:"staffSlots"`
		TwoPersonWork *bool   `json:"twoPersonWork"`
		ServiceCode   *string `json:"serviceCode"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Weekday != nil {
		wt.Weekday = *req.Weekday
	}
	if req.StartTime != nil {
		wt.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		wt.EndTime = *req.EndTime
	}
	if req.RequiredStaffCount != nil {
		wt.RequiredStaffCount = *req.RequiredStaffCount
	}
	if req.NthWeeks != nil {
		wt.NthWeeks = *req.NthWeeks
	}
	if req.IsBiweekly != nil {
		wt.IsBiweekly = *req.IsBiweekly
	}
	if req.IsActive != nil {
		wt.IsActive = *req.IsActive
	}
	if req.TwoPersonWork != nil {
		wt.TwoPersonWork = *req.TwoPersonWork
	}
	if req.ServiceCode != nil {
		wt.ServiceCode = *req.ServiceCode
	}

	var err error
	if req.EffectiveFrom != nil {
		if wt.EffectiveFrom, err = parseEffectiveDate(req.EffectiveFrom); err != nil {
			h.errorResponse(w, r, "生效开始日期格式错误，应为 YYYY-MM-DD")
			return
		}
	}
	if req.EffectiveTo != nil {
		if wt.EffectiveTo, err = parseEffectiveDate(req.EffectiveTo); err != nil {
			h.errorResponse(w, r, "生效结束日期格式错误，应为 YYYY-MM-DD")
			return
		}
	}

	if req.StaffSlots != nil {
		wt.StaffSlots = nil
		for _, slot := range *req.StaffSlots {
			wt.StaffSlots = append(wt.StaffSlots, domain.StaffSlot{
				StaffID:  slot.StaffID,
				Attended: slot.Attended,
				RoleCode: slot.RoleCode,
			})
		}
	}

	if err := utils.ValidateWeeklyTemplate(wt); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWeeklyTemplate(wt); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班型成功", wt)
}

func (h *Handler) DeleteWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	wt := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

	if err := h.repository.DeleteWeeklyTemplate(wt.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班型成功", nil)
}
