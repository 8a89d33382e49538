// Command relaydemo exercises the relay dispatch core end to end:
// proxies, mediators, commands, Lua scripts, live config reload, and
// Prometheus metrics.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
