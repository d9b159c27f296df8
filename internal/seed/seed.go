package seed

import (
	"log/slog"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/domain"
	"github.com/homecare-dx/visit-scheduler/backend/internal/repository"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// demoClient 把演示数据按客户组织，覆盖到隔周、第 N 周、跨天这几类班型。
type demoClient struct {
	client    domain.Client
	templates []domain.WeeklyTemplate
}

var demoData = []demoClient{
	{
		client: domain.Client{Code: "yamada0001", FullName: "山田花子", Address: "演示地址 1 号"},
		templates: []domain.WeeklyTemplate{
			{
				Weekday:            1, // 周一
				StartTime:          "09:00:00",
				EndTime:            "10:00:00",
				RequiredStaffCount: 1,
				IsActive:           true,
				ServiceCode:        "SVC-BODY",
			},
			{
				Weekday:            4, // 周四
				StartTime:          "14:00:00",
				EndTime:            "15:30:00",
				RequiredStaffCount: 1,
				NthWeeks:           []int32{1, 3},
				IsActive:           true,
				ServiceCode:        "SVC-LIFE",
			},
		},
	},
	{
		client: domain.Client{Code: "suzuki0002", FullName: "铃木一郎", Address: "演示地址 2 号"},
		templates: []domain.WeeklyTemplate{
			{
				Weekday:            2, // 周二
				StartTime:          "10:00:00",
				EndTime:            "12:00:00",
				RequiredStaffCount: 2,
				NthWeeks:           []int32{2, 4},
				IsBiweekly:         true,
				EffectiveFrom:      date(2025, time.April, 1),
				IsActive:           true,
				TwoPersonWork:      true,
				ServiceCode:        "SVC-BODY",
			},
			{
				// 跨天的夜间巡回
				Weekday:            5, // 周五
				StartTime:          "22:00:00",
				EndTime:            "02:00:00",
				RequiredStaffCount: 1,
				IsActive:           true,
				ServiceCode:        "SVC-BODY",
			},
		},
	},
	{
		client: domain.Client{Code: "sato0003", FullName: "佐藤健", Address: "演示地址 3 号"},
		templates: []domain.WeeklyTemplate{
			{
				Weekday:            3, // 周三
				StartTime:          "13:00:00",
				EndTime:            "14:00:00",
				RequiredStaffCount: 1,
				EffectiveFrom:      date(2025, time.June, 1),
				EffectiveTo:        date(2026, time.March, 31),
				IsActive:           true,
				ServiceCode:        "SVC-ESCORT",
			},
		},
	},
}

// SeedDemoData 插入一套固定的演示客户和班型。
func SeedDemoData(r *repository.Repository) {
	for _, dc := range demoData {
		client := dc.client
		if err := r.CreateClient(&client); err != nil {
			slog.Error("无法插入演示客户", "code", client.Code, "error", err)
			continue
		}

		for _, tpl := range dc.templates {
			tpl.ClientID = client.ID
			if err := r.CreateWeeklyTemplate(&tpl); err != nil {
				slog.Error("无法插入演示班型", "client", client.Code, "error", err)
			}
		}

		slog.Info("演示客户已插入", "code", client.Code, "templates", len(dc.templates))
	}
}
