package providers

import "time"

// shutdownTimeout bounds how long the HTTP server may drain on shutdown.
const shutdownTimeout = 30 * time.Second
