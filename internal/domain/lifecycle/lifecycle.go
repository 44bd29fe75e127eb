// Package lifecycle holds timing constants shared by start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every start/stop hook (DB ping, migrations, HTTP shutdown).
const DefaultTimeout = 15 * time.Second
