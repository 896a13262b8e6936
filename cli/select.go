package cli

import (
	"strings"

	"github.com/manifoldco/promptui"
)

// Select presents a scrollable list of choices and returns the one picked.
func Select(label string, items []string) (string, error) {
	sel := &promptui.Select{
		Label: label,
		Items: items,
		Searcher: func(input string, index int) bool {
			if len(input) == 0 {
				return false
			}

			return strings.HasPrefix(items[index], input)
		},
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", err
	}

	return value, nil
}
