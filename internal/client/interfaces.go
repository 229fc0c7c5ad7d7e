// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is the lifecycle contract of a runnable client application.
// [App] is the interactive implementation.
type Client interface {
	// Run starts the client and blocks until the user exits or a fatal
	// error occurs.
	Run() error
}
