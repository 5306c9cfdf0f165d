// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/validation"
)

// Validate checks field bounds through struct tags, then the rules that
// span several fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateSchedule(); err != nil {
		return err
	}

	if err := c.validateLimits(); err != nil {
		return err
	}

	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// validateSchedule checks the cron expression when one is set.
func (c *Config) validateSchedule() error {
	if c.Training.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(c.Training.Schedule); err != nil {
		return fmt.Errorf("TRAIN_SCHEDULE is not a valid cron expression: %w", err)
	}
	return nil
}

func (c *Config) validateLimits() error {
	r := c.Recommend
	if r.MaxK < max(r.TopK, r.SPMTopK) {
		return fmt.Errorf("RECOMMEND_MAX_K (%d) must be at least TOP_K (%d) and SPM_TOP_K (%d)", r.MaxK, r.TopK, r.SPMTopK)
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.API.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether wildcard CORS is configured in
// production, which the server logs at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}
