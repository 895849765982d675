package io

import (
	"github.com/AlecAivazis/survey/v2"
)

// Confirm prompts the user with a yes/no question. When confirmed is already
// true (the global --yes flag) the prompt is skipped.
func Confirm(confirmed *bool, title string) error {
	if *confirmed {
		return nil
	}

	question := &survey.Confirm{
		Message: title,
		Default: false,
	}
	return survey.AskOne(question, confirmed)
}
