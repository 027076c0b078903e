package quotes

import "errors"

var ErrNoSymbols = errors.New("no held symbols")
