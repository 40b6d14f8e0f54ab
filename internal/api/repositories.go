package api

import (
	"sort"
	"strings"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

const (
	sortStars   = "stars"
	sortName    = "name"
	sortUpdated = "updated"
	sortCreated = "created"
)

// repositoryViews filters repos by a case-insensitive match of query against name and
// description, annotates them with their pin state and orders them by sortKey.
// An empty sortKey sorts by stars.
func repositoryViews(repos []model.Repository, pinned map[string]bool, sortKey, query string) ([]model.RepositoryView, error) {
	less, err := repositoryOrder(sortKey)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	views := make([]model.RepositoryView, 0, len(repos))
	for _, repo := range repos {
		if query != "" && !matches(repo, query) {
			continue
		}
		views = append(views, model.RepositoryView{Repository: repo, IsPinned: pinned[repo.ID]})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return less(&views[i].Repository, &views[j].Repository)
	})
	return views, nil
}

func repositoryOrder(sortKey string) (func(a, b *model.Repository) bool, error) {
	switch sortKey {
	case "", sortStars:
		return func(a, b *model.Repository) bool { return a.StarsCount > b.StarsCount }, nil
	case sortName:
		return func(a, b *model.Repository) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }, nil
	case sortUpdated:
		return func(a, b *model.Repository) bool { return a.UpdatedAt.After(b.UpdatedAt) }, nil
	case sortCreated:
		return func(a, b *model.Repository) bool { return a.CreatedAt.After(b.CreatedAt) }, nil
	default:
		return nil, custom_errors.Invalid("sort", "sort must be one of stars, name, updated, created")
	}
}

func matches(repo model.Repository, query string) bool {
	if strings.Contains(strings.ToLower(repo.Name), query) {
		return true
	}
	return repo.Description != nil && strings.Contains(strings.ToLower(*repo.Description), query)
}
