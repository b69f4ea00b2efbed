package asynqserver

import (
	"github.com/athaan-fi-beit/backend/internal/cache"
	"github.com/athaan-fi-beit/backend/internal/config"
	"github.com/athaan-fi-beit/backend/internal/queue/processor"
	"github.com/athaan-fi-beit/backend/internal/queue/task"
	"github.com/athaan-fi-beit/backend/internal/worker"
	"github.com/athaan-fi-beit/backend/pkg/logger"

	"github.com/hibiken/asynq"
)

func New(cfg config.Cache, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: 4,
			Logger:      logger.Logger().Sugar(),
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses, Password: cfg.RedisCluster.Password}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address, Password: cfg.Redis.Password}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.SendAdminNotificationTaskName, processor.NewSendAdminNotificationProcessor(workers))
	mux.Handle(task.SendWelcomeEmailTaskName, processor.NewSendWelcomeEmailProcessor(workers))
	queues := map[string]int{
		task.NotificationQueueName: 1,
	}
	return mux, queues
}
