// Package appentry tracks whether the user finished onboarding.
package appentry

import (
	"context"
)

const Key = "appEntry"

type Route string

const (
	RouteOnboarding Route = "onboarding"
	RouteNews       Route = "news"
)

type PreferenceStore interface {
	Bool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

// Page is one onboarding screen.
type Page struct {
	Title       string
	Description string
}

var Pages = []Page{
	{
		Title:       "Stay informed",
		Description: "Browse the latest stories from BBC News, ABC News and Al Jazeera in one feed.",
	},
	{
		Title:       "Find what matters",
		Description: "Search every source at once and keep scrolling, more stories load as you go.",
	},
	{
		Title:       "Read later",
		Description: "Bookmark articles to keep them on this device, even when you are offline.",
	},
}

type Manager struct {
	prefs PreferenceStore
}

func New(prefs PreferenceStore) *Manager {
	return &Manager{prefs: prefs}
}

// Save records that onboarding was completed.
func (m *Manager) Save(ctx context.Context) error {
	return m.prefs.SetBool(ctx, Key, true)
}

func (m *Manager) Read(ctx context.Context) (bool, error) {
	return m.prefs.Bool(ctx, Key)
}

// StartDestination is the news feed after onboarding and the onboarding
// pages before it.
func (m *Manager) StartDestination(ctx context.Context) (Route, error) {
	entered, err := m.Read(ctx)
	if err != nil {
		return "", err
	}
	if entered {
		return RouteNews, nil
	}
	return RouteOnboarding, nil
}
