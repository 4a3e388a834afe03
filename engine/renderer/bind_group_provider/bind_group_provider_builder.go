package bind_group_provider

// BindGroupProviderOption is a functional option applied during NewBindGroupProvider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithGroup sets the bind group index the provider serves.
func WithGroup(group int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.group = group
	}
}
