package bind_group_provider

// BufferWrite describes a single queue write into the buffer at Binding, starting at byte Offset.
type BufferWrite struct {
	Binding int
	Offset  uint64
	Data    []byte
}
