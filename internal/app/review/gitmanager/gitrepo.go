package gitmanager

import (
	"context"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// GitManager produces throwaway checkouts of pull-request branches.
type GitManager struct {
	baseDir  string
	username string
	token    string
}

func New(baseDir, username, token string) *GitManager {
	return &GitManager{baseDir: baseDir, username: username, token: token}
}

// PullRequestClone is a local checkout of one pull-request branch. Callers
// must Remove it when done.
type PullRequestClone struct {
	Url    string
	Branch string
	Dir    string
}

func (m *GitManager) getAuth() *http.BasicAuth {
	if m.token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: m.username,
		Password: m.token,
	}
}

// CloneBranch clones a single branch of the repository into a fresh
// temporary directory.
func (m *GitManager) CloneBranch(ctx context.Context, repoUrl, branch string) (*PullRequestClone, error) {
	dir, err := os.MkdirTemp(m.baseDir, "roboto-pr-*")
	if err != nil {
		return nil, fmt.Errorf("error creating clone directory: %w", err)
	}

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           repoUrl,
		ReferenceName: plumbing.ReferenceName(fmt.Sprintf("refs/heads/%s", branch)),
		SingleBranch:  true,
		Depth:         1,
		Auth:          m.getAuth(),
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("error cloning repository '%s' branch '%s': %w", repoUrl, branch, err)
	}

	return &PullRequestClone{Url: repoUrl, Branch: branch, Dir: dir}, nil
}

// Remove deletes the local checkout.
func (c *PullRequestClone) Remove() error {
	if err := os.RemoveAll(c.Dir); err != nil {
		return fmt.Errorf("error removing local clone '%s': %w", c.Dir, err)
	}
	return nil
}
