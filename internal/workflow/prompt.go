package workflow

import (
	"strings"

	"server/internal/domain"
)

const promptTemplate = "Transform this photo into a professional headshot. " +
	"Keep the person's facial features, identity, and natural skin tone intact. " +
	"Frame from the chest up with the subject centered and looking at the camera."

// BuildPrompt composes the fixed headshot instruction with the preset's
// style fragment.
func BuildPrompt(style domain.StylePreset) string {
	parts := []string{promptTemplate}
	if fragment := strings.TrimSpace(style.Fragment); fragment != "" {
		parts = append(parts, "Style: "+fragment+".")
	}
	parts = append(parts, "Render with sharp focus, flattering studio-grade lighting, and clean post-processing.")
	return strings.Join(parts, " ")
}
