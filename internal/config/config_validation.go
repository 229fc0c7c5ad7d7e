// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Only the fields every deployment needs are checked here; backend-specific
// requirements (e.g. S3 credentials) are validated by the component that
// consumes them.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.ResubscribeInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
