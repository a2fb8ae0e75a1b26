package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const mentionReason = "mention"

type GithubConfig struct {
	Token   string
	BaseUrl string // optional override of the API root, used against GHE and in tests
}

// Client wraps the GitHub REST surface the bot interacts with: the
// notifications inbox, issue and pull-request lookups and issue comments.
type Client struct {
	gh *gogithub.Client
}

func New(ctx context.Context, cfg GithubConfig) (*Client, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := gogithub.NewClient(httpClient)

	if cfg.BaseUrl != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseUrl, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("error parsing github base url '%s': %w", cfg.BaseUrl, err)
		}
		client.BaseURL = base
	}

	return &Client{gh: client}, nil
}

// ListMentions returns the unread notifications where the bot has been
// mentioned.
func (c *Client) ListMentions(ctx context.Context) ([]*gogithub.Notification, error) {
	notifications, _, err := c.gh.Activity.ListNotifications(ctx, &gogithub.NotificationListOptions{})
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	mentions := []*gogithub.Notification{}
	for _, notification := range notifications {
		if notification.GetReason() == mentionReason {
			mentions = append(mentions, notification)
		}
	}

	return mentions, nil
}

// MarkNotificationsRead marks the notifications inbox as read up to the
// provided timestamp.
func (c *Client) MarkNotificationsRead(ctx context.Context, lastRead time.Time) error {
	_, err := c.gh.Activity.MarkNotificationsRead(ctx, gogithub.Timestamp{Time: lastRead})
	if err != nil {
		return fmt.Errorf("error marking notifications read: %w", err)
	}
	return nil
}

// GetComment fetches an issue comment by its API url. Notifications carry
// comment urls rather than owner/repo/id triples, so lookups are url-based.
func (c *Client) GetComment(ctx context.Context, commentUrl string) (*gogithub.IssueComment, error) {
	var comment gogithub.IssueComment
	if err := c.getUrl(ctx, commentUrl, &comment); err != nil {
		return nil, fmt.Errorf("error fetching comment '%s': %w", commentUrl, err)
	}
	return &comment, nil
}

func (c *Client) GetIssue(ctx context.Context, issueUrl string) (*gogithub.Issue, error) {
	var issue gogithub.Issue
	if err := c.getUrl(ctx, issueUrl, &issue); err != nil {
		return nil, fmt.Errorf("error fetching issue '%s': %w", issueUrl, err)
	}
	return &issue, nil
}

func (c *Client) GetPullRequest(ctx context.Context, prUrl string) (*gogithub.PullRequest, error) {
	var pr gogithub.PullRequest
	if err := c.getUrl(ctx, prUrl, &pr); err != nil {
		return nil, fmt.Errorf("error fetching pull request '%s': %w", prUrl, err)
	}
	return &pr, nil
}

// CreateComment posts a comment on the issue behind the provided issue url.
func (c *Client) CreateComment(ctx context.Context, issueUrl, body string) error {
	req, err := c.gh.NewRequest(http.MethodPost, issueUrl+"/comments", &gogithub.IssueComment{Body: gogithub.String(body)})
	if err != nil {
		return fmt.Errorf("error building comment request for '%s': %w", issueUrl, err)
	}

	if _, err := c.gh.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("error posting comment on '%s': %w", issueUrl, err)
	}

	return nil
}

func (c *Client) getUrl(ctx context.Context, rawUrl string, v interface{}) error {
	req, err := c.gh.NewRequest(http.MethodGet, rawUrl, nil)
	if err != nil {
		return err
	}

	_, err = c.gh.Do(ctx, req, v)
	return err
}
