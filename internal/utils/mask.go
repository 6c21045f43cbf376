package utils

import "strings"

const maxMasked = 15

// HideExceptFirstAndLast заменяет звездочками символы строки, кроме первых и последних.
// opt0 - сколько символов оставить в начале (по-умолчанию 1)
// opt1 - сколько символов оставить в конце (по-умолчанию 1)
func HideExceptFirstAndLast(str string, opt ...int) string {
	first, last := 1, 1
	if len(opt) > 0 {
		first = opt[0]
	}
	if len(opt) > 1 {
		last = opt[1]
	}

	runes := []rune(str)
	if len(runes) <= first+last {
		return strings.Repeat("*", len(runes))
	}

	hidden := string(runes[:first]) + strings.Repeat("*", len(runes)-first-last) + string(runes[len(runes)-last:])
	if r := []rune(hidden); len(r) > maxMasked {
		return string(r[:maxMasked])
	}

	return hidden
}
