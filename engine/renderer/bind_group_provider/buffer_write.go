package bind_group_provider

// BufferWrite is one queued upload into a provider's buffer at a byte offset.
// Stage builds them for the per-frame parameter upload.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
