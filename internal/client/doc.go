// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive pantry client runtime.
//
// It wires the terminal UI, the projection controller, and the
// subscription keep-alive job into a single process lifecycle: log in,
// attach the session, run the dashboard, tear down on logout or exit.
package client
