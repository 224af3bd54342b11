package bind_group_provider

// BufferWrite queues bytes for the buffer a provider holds at one binding. The scene issues
// one per uniform every tick and the backend applies them in order under its queue lock.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// UniformWrite replaces the whole uniform at binding with data.
func UniformWrite(p BindGroupProvider, binding int, data []byte) BufferWrite {
	return BufferWrite{Provider: p, Binding: binding, Data: data}
}
