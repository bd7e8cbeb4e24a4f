package form

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/nazmara/internal/models"
)

var (
	nameRe     = regexp.MustCompile(`^[a-zA-Z\x{0600}-\x{06FF}\s]+$`)
	nicknameRe = regexp.MustCompile(`^[a-zA-Z\x{0600}-\x{06FF}0-9_]+$`)
	taskTextRe = regexp.MustCompile(`^[a-zA-Z\x{0600}-\x{06FF}0-9\s]+$`)
)

// collapseSpace trims s and folds every run of whitespace into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func inRange(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func cleanName(s string) (string, bool) {
	s = collapseSpace(s)
	return s, nameRe.MatchString(s)
}

func cleanNickname(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, nicknameRe.MatchString(s)
}

func cleanTaskText(s string) (string, bool) {
	s = collapseSpace(s)
	return s, taskTextRe.MatchString(s)
}

func parsePriority(s string) (models.Priority, bool) {
	return models.ParsePriority(strings.TrimSpace(s))
}

// label turns a field name into the words used in messages.
func label(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func lengthMessage(name string, min, max int) string {
	return fmt.Sprintf("%s must be between %d and %d characters", label(name), min, max)
}
