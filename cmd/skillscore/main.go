package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/skillscore/internal/skill"
)

// Exit codes for different failure modes
const (
	ExitSuccess       = 0 // Every skill met the minimum grade
	ExitQualityFailed = 1 // One or more skills scored below the minimum grade
	ExitError         = 2 // Usage, configuration or runtime error
	ExitNotFound      = 3 // A skill directory or its SKILL.md does not exist
)

// QualityFailureError indicates that scoring succeeded but at least one skill
// fell below the minimum grade.
type QualityFailureError struct {
	Message string
}

func (e *QualityFailureError) Error() string {
	return e.Message
}

// exitCode maps an error returned by a command to a process exit code.
// A missing skill takes precedence over a low grade.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, skill.ErrNotFound) {
		return ExitNotFound
	}
	var qualityErr *QualityFailureError
	if errors.As(err, &qualityErr) {
		return ExitQualityFailed
	}
	return ExitError
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
