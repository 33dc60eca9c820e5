package actor

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GracePeriodEnvVar overrides the termination grace period, in whole seconds.
const GracePeriodEnvVar = "AGENT_GRACE_PERIOD_SECONDS"

// DefaultGracePeriod is how long Terminate waits for a worker to drain.
const DefaultGracePeriod = 3 * time.Second

// GracePeriod returns the grace period from GracePeriodEnvVar, or
// DefaultGracePeriod when the variable is unset, unparseable or negative.
func GracePeriod() time.Duration {
	v, ok := os.LookupEnv(GracePeriodEnvVar)
	if !ok {
		return DefaultGracePeriod
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return DefaultGracePeriod
	}
	return time.Duration(secs) * time.Second
}
