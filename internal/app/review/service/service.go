package service

import (
	"context"
	"fmt"
	"log"

	"github.com/marcelotrevisani/roboto/internal/app/review/commands"
	"github.com/marcelotrevisani/roboto/internal/app/review/gitmanager"
	"github.com/marcelotrevisani/roboto/internal/app/review/recipe"

	gogithub "github.com/google/go-github/v57/github"
)

const (
	showRequirementsVerb = `show\s+requirements?`

	unknownCommandMessage  = "Command not recognized, please inform a valid command."
	notPullRequestMessage  = "This command is only available on pull requests."
	reviewFailedMessageFmt = "Could not review the requirements: %v"
)

type Github interface {
	GetIssue(ctx context.Context, issueUrl string) (*gogithub.Issue, error)
	GetPullRequest(ctx context.Context, prUrl string) (*gogithub.PullRequest, error)
	CreateComment(ctx context.Context, issueUrl, body string) error
}

type Cloner interface {
	CloneBranch(ctx context.Context, repoUrl, branch string) (*gitmanager.PullRequestClone, error)
}

type RecipeLoader interface {
	LoadDir(dir string) (*recipe.Recipe, error)
}

type Advisor interface {
	GenerateRequirements(ctx context.Context, name, version string) (map[string][]recipe.Dependency, error)
}

type Comparator interface {
	RenderComparison(current, generated map[string][]recipe.Dependency) string
}

// ReviewService interprets commands mentioned to the bot and runs the
// requirements review of conda recipe pull requests.
type ReviewService struct {
	github     Github
	cloner     Cloner
	recipes    RecipeLoader
	advisor    Advisor
	comparator Comparator
	registry   *commands.Registry
}

func New(handle string, github Github, cloner Cloner, recipes RecipeLoader, advisor Advisor, comparator Comparator) *ReviewService {
	s := &ReviewService{
		github:     github,
		cloner:     cloner,
		recipes:    recipes,
		advisor:    advisor,
		comparator: comparator,
		registry:   commands.NewRegistry(handle),
	}

	s.registry.Register(showRequirementsVerb, s.showRequirements)

	return s
}

// HandleCommand dispatches a comment body to the matching command. An
// unrecognized command gets a reply asking for a valid one.
func (s *ReviewService) HandleCommand(ctx context.Context, issueUrl, body string) error {
	matched, err := s.registry.Dispatch(ctx, commands.Request{IssueUrl: issueUrl, Body: body})
	if err != nil {
		log.Printf("Error handling command on '%s': %v", issueUrl, err)
		if commentErr := s.github.CreateComment(ctx, issueUrl, fmt.Sprintf(reviewFailedMessageFmt, err)); commentErr != nil {
			log.Printf("Error replying with failure on '%s': %v", issueUrl, commentErr)
		}
		return err
	}

	if !matched {
		return s.github.CreateComment(ctx, issueUrl, unknownCommandMessage)
	}

	return nil
}

func (s *ReviewService) showRequirements(ctx context.Context, req commands.Request) error {
	issue, err := s.github.GetIssue(ctx, req.IssueUrl)
	if err != nil {
		return err
	}

	prUrl := issue.GetPullRequestLinks().GetURL()
	if prUrl == "" {
		return s.github.CreateComment(ctx, req.IssueUrl, notPullRequestMessage)
	}

	pr, err := s.github.GetPullRequest(ctx, prUrl)
	if err != nil {
		return err
	}

	head := pr.GetHead()
	clone, err := s.cloner.CloneBranch(ctx, head.GetRepo().GetCloneURL(), head.GetRef())
	if err != nil {
		return err
	}
	defer func() {
		if err := clone.Remove(); err != nil {
			log.Printf("Error cleaning up clone of '%s': %v", clone.Url, err)
		}
	}()

	current, err := s.recipes.LoadDir(clone.Dir)
	if err != nil {
		return fmt.Errorf("%w - %s", err, head.GetRepo().GetCloneURL())
	}

	generated, err := s.advisor.GenerateRequirements(ctx, current.Name, current.Version)
	if err != nil {
		return err
	}

	log.Printf("Posting requirements review for '%s %s' on '%s'", current.Name, current.Version, req.IssueUrl)

	return s.github.CreateComment(ctx, req.IssueUrl, s.comparator.RenderComparison(current.Requirements, generated))
}
