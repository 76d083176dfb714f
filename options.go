// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package fibre

import (
	"fmt"

	"github.com/joeycumines/go-fibre/diag"
	"github.com/joeycumines/logiface"
)

// storeOptions holds configuration options for Store creation.
type storeOptions struct {
	registry *diag.Registry
	logger   *logiface.Logger[logiface.Event]
	pageSize int
}

// Option configures a Store instance.
type Option interface {
	applyStore(*storeOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyStoreFunc func(*storeOptions) error
}

func (o *optionImpl) applyStore(opts *storeOptions) error {
	return o.applyStoreFunc(opts)
}

// WithDiagnostics sets the registry the Store takes its "fibre" subsystem
// logger from. Without it (or WithLogger), the Store logs nothing.
func WithDiagnostics(registry *diag.Registry) Option {
	return &optionImpl{func(opts *storeOptions) error {
		opts.registry = registry
		return nil
	}}
}

// WithLogger sets the Store's logger directly, taking precedence over
// WithDiagnostics.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *storeOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithPageSize overrides the page size that blocks of fibre slots are sized
// to. Defaults to the system page size.
func WithPageSize(size int) Option {
	return &optionImpl{func(opts *storeOptions) error {
		if size <= 0 {
			return fmt.Errorf("%w: page size %d", ErrInvalidArgument, size)
		}
		opts.pageSize = size
		return nil
	}}
}

// resolveStoreOptions applies Option instances to storeOptions.
func resolveStoreOptions(opts []Option) (*storeOptions, error) {
	cfg := &storeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyStore(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.pageSize == 0 {
		cfg.pageSize = PageSize()
	}
	if cfg.logger == nil {
		cfg.logger = cfg.registry.Logger(subsystemFibre)
	}
	return cfg, nil
}
