package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community-mod/internal/config"
	"community-mod/internal/handler"
	"community-mod/internal/middleware"
	"community-mod/internal/pkg"
	"community-mod/internal/repository/mysql"
	"community-mod/internal/repository/redis"
	"community-mod/internal/router"
	"community-mod/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	db, err := mysql.InitDB(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}
	if err := mysql.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	rdb, err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	// repositories
	members := mysql.NewMemberRepository(db)
	posts := mysql.NewPostRepository(db)
	rules := mysql.NewRuleRepository(db)
	communities := mysql.NewCommunityRepository(db)
	samples := mysql.NewActivitySampleRepository(db)
	outbox := mysql.NewOutboxRepository(db)
	sessions := redis.NewSessionRepository(rdb)

	// services
	authz := service.NewAuthzService(members)
	activity := service.NewActivityService(samples, members, service.ActivityPolicy{
		MinMembers: cfg.Policy.ActivityMinMembers,
		MinPosts:   cfg.Policy.ActivityMinPosts,
		MinPercent: cfg.Policy.ActivityMinPercent,
	})
	postSvc := service.NewPostService(posts)
	ruleSvc := service.NewRuleService(rules, communities)
	memberSvc := service.NewMemberService(members, activity, cfg.Policy.BanWindow)
	communitySvc := service.NewCommunityService(communities)

	// outbox 投递通道：没配 kafka 就降级打日志
	sender := service.Sender(service.LogSender)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relayer := service.NewOutboxRelayer(outbox, cfg.Worker.OutboxBatch, cfg.Worker.OutboxInterval, sender)
	go relayer.Run(ctx)

	sampler := service.NewActivitySampler(communities, samples, cfg.Worker.SampleInterval)
	go sampler.Run(ctx)

	tokens := pkg.NewJWTManager(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL)
	r := router.InitRouter(middleware.Auth(tokens, sessions), authz, router.Handlers{
		Community: handler.NewCommunityHandler(communitySvc),
		Post:      handler.NewPostHandler(postSvc),
		Rule:      handler.NewRuleHandler(ruleSvc),
		Member:    handler.NewMemberHandler(memberSvc),
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
