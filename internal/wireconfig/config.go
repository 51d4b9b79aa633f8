// Package wireconfig reads the environment-provided configuration the core
// consumes per §6.3: the signaling gateway URL and the two external-
// collaborator redirect URLs. The core never reads UI/branding variables
// and never persists configuration to disk — there is no config file, no
// fsnotify watcher, matching the Non-goal that call history and other
// local state are not the core's concern.
package wireconfig

import (
	"fmt"
	"os"
)

// Config holds the environment-sourced values consumed by the call
// control core.
type Config struct {
	// RESTURL is the contact lookup HTTP endpoint, consumed only through
	// the directory.Resolver interface — the core never dials it itself.
	RESTURL string
	// InviteURL is the invitation redirect base used when constructing
	// shareable call links; opaque to the core.
	InviteURL string
	// ProxyURL is the signaling gateway's wss:// URL dialed by the
	// signaling transport.
	ProxyURL string
}

// FromEnv reads REST_URL, INVITE_URL, and PROXY_URL from the process
// environment. ProxyURL is required; the other two may be empty if the
// host application has no use for them.
func FromEnv() (Config, error) {
	cfg := Config{
		RESTURL:   os.Getenv("REST_URL"),
		InviteURL: os.Getenv("INVITE_URL"),
		ProxyURL:  os.Getenv("PROXY_URL"),
	}
	if cfg.ProxyURL == "" {
		return Config{}, fmt.Errorf("wireconfig: PROXY_URL is required")
	}
	return cfg, nil
}
