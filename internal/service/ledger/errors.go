package ledger

import "errors"

// ErrStorageUnavailable хранилище недоступно: занятость слота подтвердить нельзя
var ErrStorageUnavailable = errors.New("ledger: storage unavailable")
