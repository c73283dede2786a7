package format

import (
	"fmt"
	"strings"
)

// forbiddenPatterns are expressions of judgement, speculation, or
// recommendation the model is not allowed to add on top of the facts.
var forbiddenPatterns = []string{
	"お勧め",
	"おすすめ",
	"推奨",
	"勧め",
	"すべき",
	"した方が",
	"したほうが",
	"判断",
	"推測",
	"思います",
	"思われます",
	"かもしれません",
	"でしょう",
}

// ValidateOutput rejects model output containing forbidden expressions.
func ValidateOutput(text string) error {
	lowered := strings.ToLower(text)
	for _, pattern := range forbiddenPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("出力に禁止された表現が含まれています: %q", pattern)
		}
	}
	return nil
}
