package motd

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	briefing bool
}

// WithBriefing limits rendering to everything up to and including the first
// paragraph of the post. Update markers that precede the paragraph are kept.
func WithBriefing(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.briefing = enabled
	}
}
