package services

import (
	"fmt"
	"strings"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

// BuildPersonalContext renders the user's stored preferences into the
// free-text preamble prepended to every generation prompt. Empty when the
// profile has no preferences set.
func BuildPersonalContext(profile *models.Profile) string {
	if profile == nil {
		return ""
	}

	var lines []string
	if len(profile.PreferredTechStack) > 0 {
		lines = append(lines, fmt.Sprintf("The user prefers the following technologies: %s.",
			strings.Join(profile.PreferredTechStack, ", ")))
	}
	if len(profile.ProjectTypes) > 0 {
		lines = append(lines, fmt.Sprintf("The user typically builds: %s.",
			strings.Join(profile.ProjectTypes, ", ")))
	}
	if len(profile.LearningFocus) > 0 {
		lines = append(lines, fmt.Sprintf("The user is currently learning: %s. Favor approaches that showcase these.",
			strings.Join(profile.LearningFocus, ", ")))
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, " ") + "\n"
}
