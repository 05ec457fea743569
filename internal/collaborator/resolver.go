package collaborator

import (
	"context"
	"fmt"
	"strings"

	"folioadmin/internal/consul"
)

// Resolver yields the base URL of the collaborator for the next request
type Resolver interface {
	BaseURL(ctx context.Context) (string, error)
}

// StaticResolver always returns the same base URL
type StaticResolver string

func (s StaticResolver) BaseURL(context.Context) (string, error) {
	return strings.TrimRight(string(s), "/"), nil
}

// ConsulResolver picks a healthy collaborator instance from Consul on every
// call.
type ConsulResolver struct {
	discovery   consul.ServiceDiscovery
	serviceName string
}

func NewConsulResolver(discovery consul.ServiceDiscovery, serviceName string) *ConsulResolver {
	return &ConsulResolver{discovery: discovery, serviceName: serviceName}
}

func (r *ConsulResolver) BaseURL(ctx context.Context) (string, error) {
	instance, err := r.discovery.DiscoverOne(ctx, r.serviceName)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", r.serviceName, err)
	}
	return instance.URL(), nil
}
