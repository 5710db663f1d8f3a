package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xiaot623/gogo/relay/internal/domain"
)

// FetchUserProfile is the name of the built-in profile lookup tool.
const FetchUserProfile = "fetch_user_profile"

// UserProfile is the synthetic profile returned by fetch_user_profile.
type UserProfile struct {
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	Preferences  UserPreferences `json:"preferences"`
	Subscription string          `json:"subscription"`
}

// UserPreferences holds display settings for a profile.
type UserPreferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

var fetchUserProfileDef = domain.ToolDefinition{
	Name:        FetchUserProfile,
	Description: "Get user profile information by user ID",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"user_id": map[string]any{
				"type":        "string",
				"description": "The user ID to fetch",
			},
		},
		"required": []any{"user_id"},
	},
}

func fetchUserProfile(ctx context.Context, args map[string]any) (string, error) {
	userID, ok := args["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id must be a string")
	}

	profile := UserProfile{
		UserID: userID,
		Name:   "Alex Johnson",
		Preferences: UserPreferences{
			Theme:         "dark",
			Notifications: true,
		},
		Subscription: "premium",
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	return string(data), nil
}

// NewDefaultRegistry returns a frozen registry holding the built-in tools.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(fetchUserProfileDef, fetchUserProfile)
	r.Freeze()
	return r
}
