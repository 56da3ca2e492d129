package packs

import "errors"

var (
	// ErrRulesUnavailable снимок правил прочитать не удалось
	ErrRulesUnavailable = errors.New("packs: discount rules unavailable")
)
