package main

import (
	"fmt"
	"strings"

	"pru/pkg/config"
	"pru/pkg/jsonfetch"
	"pru/pkg/psyche"
	"pru/pkg/remote"
)

// missionFactory builds a mission backend on top of a catalog client.
type missionFactory func(cfg *config.Config, client *jsonfetch.Client) remote.Fetcher

var missions = map[string]missionFactory{
	psyche.Name: func(cfg *config.Config, client *jsonfetch.Client) remote.Fetcher {
		return psyche.New(psyche.ConfigFrom(cfg.Catalog), client)
	},
}

func newMission(cfg *config.Config, client *jsonfetch.Client) (remote.Fetcher, error) {
	factory, ok := missions[strings.ToLower(cfg.Catalog.Mission)]
	if !ok {
		return nil, fmt.Errorf("unsupported mission %q", cfg.Catalog.Mission)
	}
	return factory(cfg, client), nil
}
