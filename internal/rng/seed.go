// This project is licensed under the MIT License (see LICENSE).

package rng

import (
	"os"
	"time"
)

// deriveSeed builds a default seed from the process id and wall-clock
// time.
func deriveSeed() int64 {
	return time.Now().UnixNano() ^ int64(os.Getpid())<<32
}
