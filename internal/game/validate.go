package game

import (
	"regexp"
	"strings"

	"sk8_webapp/internal/domain"
)

const (
	nameMinLen = 2
	nameMaxLen = 50
)

// Clip paths point into the blob store under a game-scoped namespace.
// Only the shape is checked; the clip itself is never fetched.
var clipPathRe = regexp.MustCompile(`^games/[A-Za-z0-9/_-]+\.(?i:mp4|mov|webm)$`)

var codeRe = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// ValidateName trims and bounds a display name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < nameMinLen {
		return "", domain.Errorf(domain.KindInvalidArgument, "display name must be at least %d characters", nameMinLen)
	}
	if len(name) > nameMaxLen {
		return "", domain.Errorf(domain.KindInvalidArgument, "display name must be %d characters or less", nameMaxLen)
	}
	return name, nil
}

// ValidateCode checks the join-code shape (six of A-Z or 0-9).
func ValidateCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codeRe.MatchString(code) {
		return "", domain.NewError(domain.KindInvalidArgument, "game code must be exactly 6 characters")
	}
	return code, nil
}

// ValidateClipPath checks the storage-path shape for an uploaded clip.
func ValidateClipPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || !clipPathRe.MatchString(path) {
		return "", domain.NewError(domain.KindInvalidArgument, "invalid clip path")
	}
	return path, nil
}
