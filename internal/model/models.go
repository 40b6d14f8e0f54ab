// internal/model/models.go
package model

import "time"

// Identity is an authenticated user of the dashboard.
type Identity struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	GithubUsername  *string   `json:"githubUsername"`
	Credential      string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// LinkedUsername returns the linked GitHub username, or "" when none is linked.
func (i *Identity) LinkedUsername() string {
	if i == nil || i.GithubUsername == nil {
		return ""
	}
	return *i.GithubUsername
}

// Profile is the public GitHub profile of a user.
type Profile struct {
	Login           string  `json:"login"`
	Name            *string `json:"name"`
	Bio             *string `json:"bio"`
	AvatarURL       string  `json:"avatarUrl"`
	Followers       int     `json:"followers"`
	Following       int     `json:"following"`
	RepositoryCount int     `json:"repositoryCount"`
}

// DisplayName returns the profile name, falling back to the login.
func (p Profile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Login
}

type PrimaryLanguage struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LanguageEdge is the byte size of one language inside a repository.
type LanguageEdge struct {
	Language string `json:"language"`
	Color    string `json:"color,omitempty"`
	Size     int64  `json:"size"`
}

// Repository represents the metadata of a GitHub repository as cached in a snapshot.
type Repository struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	StarsCount      int              `json:"stargazerCount"`
	ForksCount      int              `json:"forkCount"`
	PrimaryLanguage *PrimaryLanguage `json:"primaryLanguage"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	URL             string           `json:"url"`
	IsPrivate       bool             `json:"isPrivate"`
	Languages       []LanguageEdge   `json:"languages"`
}

// RepositoryView is a repository annotated with the caller's pin state.
type RepositoryView struct {
	Repository
	IsPinned bool `json:"isPinned"`
}

// ContributionStats are the contribution counters for a date window.
type ContributionStats struct {
	Commits            int `json:"totalCommitContributions"`
	Issues             int `json:"totalIssueContributions"`
	PullRequests       int `json:"totalPullRequestContributions"`
	PullRequestReviews int `json:"totalPullRequestReviewContributions"`
	Repositories       int `json:"totalRepositoryContributions"`
}

// LanguageShare is one language's share of the total code size, in percent with one decimal.
type LanguageShare struct {
	Language   string  `json:"language"`
	Percentage float64 `json:"percentage"`
}

// LanguageStats is ordered by descending percentage.
type LanguageStats []LanguageShare

// Map returns the stats keyed by language name.
func (s LanguageStats) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, share := range s {
		m[share.Language] = share.Percentage
	}
	return m
}

// Snapshot is the cached bundle for one (identity, GitHub username) pair.
type Snapshot struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	GithubUsername    string            `json:"githubUsername"`
	Profile           Profile           `json:"profileData"`
	Repositories      []Repository      `json:"repositories"`
	LanguageStats     LanguageStats     `json:"languageStats"`
	ContributionStats ContributionStats `json:"contributionStats"`
	LastUpdated       time.Time         `json:"lastUpdated"`
}

// Pin is a user-selected favorite repository.
type Pin struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	RepositoryID    string    `json:"repositoryId"`
	RepositoryName  string    `json:"repositoryName"`
	RepositoryOwner string    `json:"repositoryOwner"`
	PinnedAt        time.Time `json:"pinnedAt"`
}
