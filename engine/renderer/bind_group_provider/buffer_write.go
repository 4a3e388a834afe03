package bind_group_provider

// BufferWrite is one pending upload into a provider's buffer.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
