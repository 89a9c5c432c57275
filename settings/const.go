package settings

import (
	"time"
)

const (
	DEFAULT_SEGMENT_SIZE  = 10 * 1024 * 1024
	EXTENDED_SEGMENT_SIZE = 1024 * 1024
	LOOP_DELAY            = 50 * time.Millisecond
	EXTENDED_OUT_PERIOD   = 1 * time.Second
	LOAD_RETRIES          = 3
)
