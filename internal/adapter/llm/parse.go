package llm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	uc "eva-framework/internal/usecase/screening"
)

const (
	MaxPoints      = 4
	minPointLength = 8
)

var reBullet = regexp.MustCompile(`^(?:[-*・•●◦]+|\d+[.)、．])\s*`)

var fallbackPoints = []string{
	"返済が家計に与える影響を、生活費と合わせて確認しましょう",
	"頭金と諸費用に充てられる自己資金を整理しましょう",
	"他の借入がある場合は、完済の予定を確認しましょう",
	"金利タイプや返済期間の選び方について相談しましょう",
}

// Fallback returns the fixed discussion points.
func Fallback() uc.DiscussionPoints {
	items := make([]string, len(fallbackPoints))
	copy(items, fallbackPoints)
	return uc.DiscussionPoints{Items: items, Source: uc.SourceFallback}
}

// ParsePoints splits model output into at most MaxPoints bullet lines,
// stripping list markers and dropping lines shorter than minPointLength runes.
func ParsePoints(text string) []string {
	out := make([]string, 0, MaxPoints)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(reBullet.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(line) < minPointLength {
			continue
		}
		out = append(out, line)
		if len(out) == MaxPoints {
			break
		}
	}
	return out
}
