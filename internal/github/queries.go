package github

import (
	"time"

	"github-portfolio/internal/model"
)

const profileQuery = `
query GetUser($username: String!) {
  user(login: $username) {
    login
    name
    bio
    avatarUrl
    followers { totalCount }
    following { totalCount }
    repositories { totalCount }
  }
}`

const repositoriesQuery = `
query GetRepositories($username: String!, $first: Int!) {
  user(login: $username) {
    repositories(
      first: $first
      orderBy: {field: STARGAZERS, direction: DESC}
      ownerAffiliations: OWNER
      privacy: PUBLIC
    ) {
      nodes {
        id
        name
        description
        stargazerCount
        forkCount
        primaryLanguage { name color }
        createdAt
        updatedAt
        url
        isPrivate
        languages(first: 10, orderBy: {field: SIZE, direction: DESC}) {
          totalSize
          edges { size node { name color } }
        }
      }
    }
  }
}`

const contributionsQuery = `
query GetContributions($username: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to) {
      totalCommitContributions
      totalIssueContributions
      totalPullRequestContributions
      totalPullRequestReviewContributions
      totalRepositoryContributions
    }
  }
}`

type totalCount struct {
	TotalCount int `json:"totalCount"`
}

type gqlProfile struct {
	Login        string     `json:"login"`
	Name         *string    `json:"name"`
	Bio          *string    `json:"bio"`
	AvatarURL    string     `json:"avatarUrl"`
	Followers    totalCount `json:"followers"`
	Following    totalCount `json:"following"`
	Repositories totalCount `json:"repositories"`
}

type gqlLanguage struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type gqlRepository struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     *string      `json:"description"`
	StargazerCount  int          `json:"stargazerCount"`
	ForkCount       int          `json:"forkCount"`
	PrimaryLanguage *gqlLanguage `json:"primaryLanguage"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	URL             string       `json:"url"`
	IsPrivate       bool         `json:"isPrivate"`
	Languages       struct {
		TotalSize int64 `json:"totalSize"`
		Edges     []struct {
			Size int64       `json:"size"`
			Node gqlLanguage `json:"node"`
		} `json:"edges"`
	} `json:"languages"`
}

type gqlContributions struct {
	TotalCommitContributions            int `json:"totalCommitContributions"`
	TotalIssueContributions             int `json:"totalIssueContributions"`
	TotalPullRequestContributions       int `json:"totalPullRequestContributions"`
	TotalPullRequestReviewContributions int `json:"totalPullRequestReviewContributions"`
	TotalRepositoryContributions        int `json:"totalRepositoryContributions"`
}

// toInternalProfile translates a GraphQL user object to our internal model.Profile.
func toInternalProfile(p *gqlProfile) *model.Profile {
	return &model.Profile{
		Login:           p.Login,
		Name:            p.Name,
		Bio:             p.Bio,
		AvatarURL:       p.AvatarURL,
		Followers:       p.Followers.TotalCount,
		Following:       p.Following.TotalCount,
		RepositoryCount: p.Repositories.TotalCount,
	}
}

// toInternalRepository translates a GraphQL repository node to our internal model.Repository.
func toInternalRepository(r gqlRepository) model.Repository {
	repo := model.Repository{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		StarsCount:  r.StargazerCount,
		ForksCount:  r.ForkCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		URL:         r.URL,
		IsPrivate:   r.IsPrivate,
		Languages:   make([]model.LanguageEdge, 0, len(r.Languages.Edges)),
	}
	if r.PrimaryLanguage != nil {
		repo.PrimaryLanguage = &model.PrimaryLanguage{Name: r.PrimaryLanguage.Name, Color: r.PrimaryLanguage.Color}
	}
	for _, e := range r.Languages.Edges {
		repo.Languages = append(repo.Languages, model.LanguageEdge{
			Language: e.Node.Name,
			Color:    e.Node.Color,
			Size:     e.Size,
		})
	}
	return repo
}

func toInternalContributions(c *gqlContributions) *model.ContributionStats {
	return &model.ContributionStats{
		Commits:            c.TotalCommitContributions,
		Issues:             c.TotalIssueContributions,
		PullRequests:       c.TotalPullRequestContributions,
		PullRequestReviews: c.TotalPullRequestReviewContributions,
		Repositories:       c.TotalRepositoryContributions,
	}
}
