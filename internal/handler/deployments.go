package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/recurrence"
)

// resolveMonth 解析请求中的月份，缺省时取配置时区下的当前月。
func (h *Handler) resolveMonth(monthParam string) (recurrence.Month, error) {
	if monthParam == "" {
		return recurrence.MonthOf(time.Now().In(h.location)), nil
	}
	return recurrence.ParseMonth(monthParam)
}

func previewCacheKey(clientID int64, month recurrence.Month, policy domain.ReconcilePolicy, recurrenceEnabled bool) string {
	return fmt.Sprintf("preview_%d_%s_%s_%t", clientID, month, policy, recurrenceEnabled)
}

func (h *Handler) PreviewShiftDeployment(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	var req struct {
		Month             string `json:"month"`
		Policy            string `json:"policy" validate:"required"`
		RecurrenceEnabled *bool  `json:"recurrenceEnabled"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	policy := domain.ReconcilePolicy(req.Policy)
	if !domain.ValidPolicy(policy) {
		h.errorResponse(w, r, "未知的对账策略")
		return
	}

	month, err := h.resolveMonth(req.Month)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	recurrenceEnabled := true
	if req.RecurrenceEnabled != nil {
		recurrenceEnabled = *req.RecurrenceEnabled
	}

	// 预览是纯读操作，结果只跟库里的状态有关，所以可以放心缓存一小段时间
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	cacheKey := previewCacheKey(client.ID, month, policy, recurrenceEnabled)
	if cached, err := h.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var rows []domain.PreviewRow
		if err := json.Unmarshal([]byte(cached), &rows); err == nil {
			h.successResponse(w, r, "预览成功", rows)
			return
		}
	} else if err != redis.Nil {
		h.logInternalServerError(r, err) // 缓存不可用不阻塞预览
	}

	rows, err := h.preview.Preview(client.ID, month, policy, recurrenceEnabled)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if data, err := json.Marshal(rows); err == nil {
		if err := h.redisClient.Set(ctx, cacheKey, data, time.Duration(h.config.PreviewCache.Expiration)*time.Second).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.successResponse(w, r, "预览成功", rows)
}

func (h *Handler) DeployShifts(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Operator)

	var req struct {
		Month  string `json:"month"`
		Policy string `json:"policy" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	policy := domain.ReconcilePolicy(req.Policy)
	if !domain.ValidPolicy(policy) {
		h.errorResponse(w, r, "未知的对账策略")
		return
	}

	month, err := h.resolveMonth(req.Month)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	result, deployErr := h.deployment.Deploy(client.ID, month, policy)

	// 库里的状态变了，当月的预览缓存全部作废
	h.invalidatePreviewCache(r, client.ID, month)

	if deployErr != nil {
		h.logInternalServerError(r, deployErr)
		// 部分完成时把已知的插入数和删除数带回去，让调用方能看到中断点
		h.errorResponseWithData(w, r, "下发未完成", result)
		return
	}

	h.sendDeployReport(r, myInfo, client, month, policy, result)

	h.successResponse(w, r, "下发成功", result)
}

func (h *Handler) invalidatePreviewCache(r *http.Request, clientID int64, month recurrence.Month) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	keys := make([]string, 0, 6)
	for _, policy := range []domain.ReconcilePolicy{domain.PolicySkipConflict, domain.PolicyOverwriteOnly, domain.PolicyDeleteMonthInsert} {
		for _, enabled := range []bool{true, false} {
			keys = append(keys, previewCacheKey(clientID, month, policy, enabled))
		}
	}

	if err := h.redisClient.Del(ctx, keys...).Err(); err != nil {
		h.logInternalServerError(r, err)
	}
}

// sendDeployReport 把下发结果投到邮件队列。发不出去只记日志，不影响下发本身。
func (h *Handler) sendDeployReport(r *http.Request, operator *domain.Operator, client *domain.Client, month recurrence.Month, policy domain.ReconcilePolicy, result *domain.DeploymentResult) {
	mailMessage := domain.MailMessage{
		Type: "deploy_report",
		To:   operator.Email,
		Data: domain.DeployReportMailData{
			OperatorName:  operator.FullName,
			ClientName:    client.FullName,
			Month:         month.String(),
			Policy:        string(policy),
			InsertedCount: result.InsertedCount,
			PrunedCount:   result.PrunedCount,
			Status:        string(result.Status),
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.logInternalServerError(r, err)
	}
}

func (h *Handler) GetClientShiftInstances(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	month, err := h.resolveMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	instances, err := h.repository.GetShiftInstancesByMonth(client.ID, month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班实例成功", instances)
}

func (h *Handler) DeleteShiftInstance(w http.ResponseWriter, r *http.Request) {
	instanceIDParam := chi.URLParam(r, "id")
	instanceID, err := strconv.ParseInt(instanceIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "实例ID无效")
		return
	}

	if err := h.repository.DeleteShiftInstance(instanceID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班实例成功", nil)
}
