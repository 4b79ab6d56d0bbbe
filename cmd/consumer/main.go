package main

import (
	"log"

	"ShengHang/internal/config"
	"ShengHang/internal/data"
	"ShengHang/internal/repository"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"
	"ShengHang/pkg/rabbitmq"

	"github.com/streadway/amqp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// 消费者进程：连接mysql，rabbitMQ，把播放记录写入历史表并累加歌曲播放量
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	// 连接数据库
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueuePlayRecord); err != nil {
		logger.Log.Fatalf("声明播放记录队列失败: %v", err)
	}

	// 事务中不操作Redis，所以rdb传nil
	catalogRepo := repository.NewCatalogRepository(db, nil, 0)
	repos := data.NewRepositories(db, catalogRepo)
	uow := data.NewUnitOfWork(db, repos)
	// consumer不投递消息，publisher传nil
	historyService := service.NewHistoryService(repos.HistoryRepo, catalogRepo, uow, nil, cfg.HistoryKeepPerUser)

	consumePlays(rabbitMQConn, historyService)
}

// 播放记录消费者：1、通过mq的TCP连接创建channel 2、注册消费者 3、循环读取消息交给handlePlayMessage 4、按结果Ack/Nack
func consumePlays(conn *amqp.Connection, persister PlayPersister) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 一次最多拿10条未确认的消息
	if err := ch.Qos(10, 0, false); err != nil {
		logger.Log.Fatalf("设置Qos失败: %v", err)
	}

	msgs, err := ch.Consume(
		service.QueuePlayRecord, // queue
		"",                      // consumer
		false,                   // auto-ack: 手动确认
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,                     // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册播放记录消费者: %v", err)
	}
	// 创建一个没有任何缓冲的bool类型通道
	forever := make(chan bool)

	go func() {
		// msgs不是切片，而是通道channel，如果通道为空不会结束循环，而会“阻塞”
		for d := range msgs {
			logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)
			switch handlePlayMessage(d.Body, persister, logCtx) {
			case ackDone:
				d.Ack(false)
			case ackDrop:
				// 坏消息直接删除，不再重试
				d.Nack(false, false)
			case ackRetry:
				d.Nack(false, true)
			}
		}
	}()
	logger.Log.Info(" [*] 等待播放记录消息中. 按 CTRL+C 退出")
	// 尝试从forever通道里接收一个值，但没有发送者，这会阻止main函数退出
	<-forever
}
