package notifications

import (
	"context"

	"github.com/marcelotrevisani/roboto/config"
	"github.com/marcelotrevisani/roboto/internal/app/notifications/controller"
	"github.com/marcelotrevisani/roboto/internal/app/notifications/repository"
	"github.com/marcelotrevisani/roboto/internal/app/notifications/service"
	"github.com/marcelotrevisani/roboto/internal/pkg/github"
)

type NotificationsSet struct {
	*service.NotificationsService
	*controller.NotificationsEndpoints
}

func Init(ctx context.Context, cfg *config.Config, github *github.Client, reviewer service.Reviewer) (*NotificationsSet, error) {
	repo, err := repository.New(ctx, repository.RepositoryConfig{
		RedisAddrs:    cfg.RedisAddrs,
		RedisUsername: cfg.RedisUsername,
		RedisPassword: cfg.RedisPassword,
		RedisTls:      bool(cfg.RedisTls),

		EtcdAddrs:    cfg.EtcdAddrs,
		EtcdUsername: cfg.EtcdUsername,
		EtcdPassword: cfg.EtcdPassword,
	})
	if err != nil {
		return nil, err
	}

	service := service.New(service.NotificationsConfig{
		CheckInterval: cfg.CheckInterval,
		Hostname:      cfg.Hostname,
	}, github, reviewer, repo)

	endpoints := controller.New(service)

	return &NotificationsSet{
		service, endpoints,
	}, nil
}
