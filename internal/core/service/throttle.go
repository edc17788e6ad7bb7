package service

import "context"

// NopThrottle never locks a login. Used when no throttle store is configured.
type NopThrottle struct{}

func (NopThrottle) Locked(context.Context, string) (bool, error) { return false, nil }

func (NopThrottle) RecordFailure(context.Context, string) error { return nil }

func (NopThrottle) Reset(context.Context, string) error { return nil }
