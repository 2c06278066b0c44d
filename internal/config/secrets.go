package config

import "maps"

// RedactedConfig returns a copy of cfg with sensitive fields replaced by the
// redaction placeholder "***". Use this when logging or printing the active
// configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	redact(&out.Ebay.Token)
	redact(&out.Catalog.APIKey)

	redact(&out.Postgres.DSN)
	redact(&out.Postgres.Password)

	redact(&out.Redis.Password)

	redact(&out.S3.AccessKey)
	redact(&out.S3.SecretKey)

	redact(&out.Server.APIKey)

	redact(&out.Notify.TelegramToken)
	redact(&out.Notify.DiscordWebhookURL)

	// Copy slices and maps so callers cannot mutate the original through the
	// redacted copy.
	out.Ebay.Queries = cloneStrings(cfg.Ebay.Queries)
	out.Scan.AllowedCountries = cloneStrings(cfg.Scan.AllowedCountries)
	out.Scan.BlockedConditions = cloneStrings(cfg.Scan.BlockedConditions)
	out.Server.CORSOrigins = cloneStrings(cfg.Server.CORSOrigins)
	out.Preferences.AllowedConditions = cloneStrings(cfg.Preferences.AllowedConditions)
	out.Preferences.PreferredGradingCompanies = cloneStrings(cfg.Preferences.PreferredGradingCompanies)
	if cfg.Pricing.Rates != nil {
		out.Pricing.Rates = maps.Clone(cfg.Pricing.Rates)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
