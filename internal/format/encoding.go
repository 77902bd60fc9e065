package format

import "encoding/binary"

// Binary encoding for the words allocators store inside caller buffers.
//
// Headers, footers and list links are little-endian regardless of host order,
// so a buffer dumped from one machine decodes the same on another.

// PutU32 writes a uint32 value to the buffer at the specified offset.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutI32 writes an int32 value to the buffer at the specified offset.
func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

// ReadU32 reads a uint32 value from the buffer at the specified offset.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadI32 reads an int32 value from the buffer at the specified offset.
func ReadI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}
