package main

import (
	"log"

	"ShengHang/internal/config"
	"ShengHang/internal/cron"
	"ShengHang/internal/data"
	"ShengHang/internal/handler"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
	"ShengHang/internal/router"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"
	"ShengHang/pkg/rabbitmq"
	"ShengHang/pkg/redis"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 加载.env文件和环境变量
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	// 初始化logger
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	// 初始化Redis
	redisClient, err := redis.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close() // 确保程序退出时关闭连接
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueuePlayRecord); err != nil {
		logger.Log.Fatalf("声明播放记录队列失败: %v", err)
	}
	logger.Log.Info("RabbitMQ连接成功")

	// 级联删除都在事务里显式完成，不依赖外键
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")
	// db.AutoMigrate(),没有这个表就创建,没有属性列则创建列,没有约束则增加约束;不会主动删除和修改
	if err := model.AutoMigrate(db); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	catalogRepo := repository.NewCatalogRepository(db, redisClient, cfg.SongCacheTTL)
	repos := data.NewRepositories(db, catalogRepo)
	followRepo := repository.NewFollowRepository(db)
	tokenRepo := repository.NewTokenRepository(redisClient)
	uow := data.NewUnitOfWork(db, repos)

	userService := service.NewUserService(repos.UserRepo, tokenRepo, []byte(cfg.JWTSecret), cfg.JWTTTL)
	followService := service.NewFollowService(followRepo, repos.UserRepo, catalogRepo)
	commentService := service.NewCommentService(repos.CommentRepo, uow)
	songlistService := service.NewSonglistService(repos.SonglistRepo, uow, service.NewSonglistCleanupHook(cfg.OrphanCommentPolicy))
	favoriteService := service.NewFavoriteService(repos.FavoriteRepo)
	rankingService := service.NewRankingService(repos.FavoriteRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	historyService := service.NewHistoryService(repos.HistoryRepo, catalogRepo, uow, rabbitmq.NewPublisher(rabbitMQConn), cfg.HistoryKeepPerUser)

	cronManager := cron.NewCronManager(cfg.HistoryCleanupCron, historyService)
	if err := cronManager.Start(); err != nil {
		logger.Log.Fatalf("定时任务启动失败: %v", err)
	}
	defer cronManager.Stop()

	r := router.SetupRouter(router.Handlers{
		User:     handler.NewUserHandler(userService),
		Follow:   handler.NewFollowHandler(followService),
		Comment:  handler.NewCommentHandler(commentService),
		Songlist: handler.NewSonglistHandler(songlistService),
		Favorite: handler.NewFavoriteHandler(favoriteService, rankingService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		History:  handler.NewHistoryHandler(historyService),
	}, router.AuthDeps{
		SecretKey: []byte(cfg.JWTSecret),
		Revoked:   tokenRepo,
		Admins:    repos.UserRepo,
	})
	logger.Log.WithField("addr", cfg.ServerAddr).WithField("orphan_comment_policy", cfg.OrphanCommentPolicy).Info("服务器即将启动")

	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
