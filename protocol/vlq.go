package protocol

import "errors"

var (
	ErrInvalidVLQ     = errors.New("invalid VLQ encoding")
	ErrBufferTooSmall = errors.New("buffer too small for VLQ")
)

// WriteInt encodes a signed integer in VLQ form, most significant group
// first, high bit set on every byte but the last.
func WriteInt(out OutputBuffer, v int32) {
	if !(-(1<<26) <= v && v < (3<<26)) {
		out.Output([]byte{byte((v>>28)&0x7F) | 0x80})
	}
	if !(-(1<<19) <= v && v < (3<<19)) {
		out.Output([]byte{byte((v>>21)&0x7F) | 0x80})
	}
	if !(-(1<<12) <= v && v < (3<<12)) {
		out.Output([]byte{byte((v>>14)&0x7F) | 0x80})
	}
	if !(-(1<<5) <= v && v < (3<<5)) {
		out.Output([]byte{byte((v>>7)&0x7F) | 0x80})
	}
	out.Output([]byte{byte(v & 0x7F)})
}

// WriteUint encodes an unsigned integer in VLQ form.
func WriteUint(out OutputBuffer, v uint32) {
	WriteInt(out, int32(v))
}

// ReadInt decodes a VLQ signed integer, advancing data past the consumed
// bytes.
func ReadInt(data *[]byte) (int32, error) {
	if len(*data) == 0 {
		return 0, ErrBufferTooSmall
	}

	c := uint32((*data)[0])
	*data = (*data)[1:]

	v := c & 0x7F
	// The two top payload bits of the first byte both set marks a negative
	// value; sign-extend.
	if (c & 0x60) == 0x60 {
		v |= ^uint32(0x1F)
	}

	for c&0x80 != 0 {
		if len(*data) == 0 {
			return 0, ErrBufferTooSmall
		}
		c = uint32((*data)[0])
		*data = (*data)[1:]
		v = (v << 7) | (c & 0x7F)
	}

	return int32(v), nil
}

// ReadUint decodes a VLQ unsigned integer.
func ReadUint(data *[]byte) (uint32, error) {
	v, err := ReadInt(data)
	return uint32(v), err
}

// WriteBytes encodes a length-prefixed byte array.
func WriteBytes(out OutputBuffer, data []byte) {
	WriteUint(out, uint32(len(data)))
	out.Output(data)
}

// ReadBytes decodes a length-prefixed byte array. The returned slice
// aliases the input.
func ReadBytes(data *[]byte) ([]byte, error) {
	length, err := ReadUint(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(*data)) < length {
		return nil, ErrBufferTooSmall
	}
	result := (*data)[:length]
	*data = (*data)[length:]
	return result, nil
}

// WriteString encodes a length-prefixed string.
func WriteString(out OutputBuffer, s string) {
	WriteUint(out, uint32(len(s)))
	out.Output([]byte(s))
}

// ReadString decodes a length-prefixed string.
func ReadString(data *[]byte) (string, error) {
	b, err := ReadBytes(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
