package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/homecare-dx/visit-scheduler/backend/internal/config"
	"github.com/homecare-dx/visit-scheduler/backend/internal/repository"
	"github.com/homecare-dx/visit-scheduler/backend/internal/seed"
	"github.com/homecare-dx/visit-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var clientID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机操作员, 2: 插入随机客户, 3: 为指定客户插入随机班型, 4: 插入演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&clientID, "client-id", 0, "随机插入班型的客户 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的操作员数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				operator, err := utils.GenerateRandomOperator(cfg.Seed.Operator.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机操作员", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateOperator(operator); err != nil {
					slog.Error("无法插入操作员", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入操作员成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的客户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				client := utils.GenerateRandomClient()
				if err := repo.CreateClient(client); err != nil {
					slog.Error("无法插入客户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入客户成功", slog.Int("count", n-cnt))
		}
	case 3:
		if clientID <= 0 {
			slog.Error("请输入合法的客户 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的班型数量")
			return
		}

		// 先确认客户存在
		if _, err := repo.GetClientByID(clientID); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的客户不存在", slog.Int64("client_id", clientID))
			default:
				slog.Error("无法获取客户", slog.String("error", err.Error()))
			}
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			wt := utils.GenerateRandomWeeklyTemplate(clientID)
			if err := repo.CreateWeeklyTemplate(wt); err != nil {
				slog.Error("无法插入班型", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入班型成功", slog.Int("count", n-cnt))
	case 4:
		seed.SeedDemoData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
