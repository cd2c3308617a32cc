package util

import "github.com/pterm/pterm"

// Menu shows a numbered selection and returns the picked index. ok is false
// when the operator backed out, which callers treat as a clean abort.
func Menu(title string, items []string) (int, bool) {
	if len(items) == 0 {
		return -1, false
	}
	picked, err := pterm.DefaultInteractiveSelect.
		WithDefaultText(title).
		WithMaxHeight(12).
		WithOptions(items).
		Show()
	if err != nil {
		return -1, false
	}
	for i, item := range items {
		if item == picked {
			return i, true
		}
	}
	return -1, false
}

// Confirm asks a y/n question. ok is false on operator cancel.
func Confirm(question string) (answer bool, ok bool) {
	answer, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(question).
		Show()
	if err != nil {
		return false, false
	}
	return answer, true
}
