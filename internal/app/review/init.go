package review

import (
	"context"

	"github.com/marcelotrevisani/roboto/config"
	"github.com/marcelotrevisani/roboto/internal/app/review/advisor"
	"github.com/marcelotrevisani/roboto/internal/app/review/comparator"
	"github.com/marcelotrevisani/roboto/internal/app/review/gitmanager"
	"github.com/marcelotrevisani/roboto/internal/app/review/recipe"
	"github.com/marcelotrevisani/roboto/internal/app/review/service"
	"github.com/marcelotrevisani/roboto/internal/pkg/github"
)

type ReviewSet struct {
	*service.ReviewService
}

func Init(ctx context.Context, cfg *config.Config, github *github.Client) (*ReviewSet, error) {
	cloner := gitmanager.New(cfg.CloneDir, cfg.GitUsername, cfg.GitAccessToken)
	recipes := recipe.NewLoader()
	advisor := advisor.New(cfg.PypiBaseUrl)
	comparator := comparator.New()

	service := service.New(cfg.BotHandle, github, cloner, recipes, advisor, comparator)

	return &ReviewSet{service}, nil
}
