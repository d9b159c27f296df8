package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
)

func (h *Handler) GetAllClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.repository.GetAllClients()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有客户成功", clients)
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code" validate:"required"`
		FullName string `json:"fullName" validate:"required"`
		Address  string `json:"address"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	client := &domain.Client{
		Code:     req.Code,
		FullName: req.FullName,
		Address:  req.Address,
	}

	if err := h.repository.CreateClient(client); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "clients_code_key":
				h.errorResponse(w, r, "客户编号已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建客户成功", client)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	h.successResponse(w, r, "获取客户成功", client)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	var req struct {
		FullName *string `json:"fullName"`
		Address  *string `json:"address"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FullName != nil {
		client.FullName = *req.FullName
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateClient(client); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新客户成功", client)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	if err := h.repository.DeleteClient(client.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "weekly_templates_client_id_fkey":
				h.errorResponse(w, r, "该客户名下还有班型，无法删除")
			case "shift_instances_client_id_fkey":
				h.errorResponse(w, r, "该客户名下还有排班实例，无法删除")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除客户成功", nil)
}
