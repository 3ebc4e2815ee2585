package highlight

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTreeURLDecode is returned for input that is not URL-safe base64.
	ErrTreeURLDecode = errors.New("tree url: invalid base64")
	// ErrTreeURLEOF is returned when the payload ends before its header or
	// node list is complete.
	ErrTreeURLEOF = errors.New("tree url: unexpected end of data")
	// ErrTreeURLVersion is returned for payload versions other than 4, 5
	// and 6.
	ErrTreeURLVersion = errors.New("tree url: unknown version")
)

// treeURLHeader is version (4 bytes), class and ascendancy.
const treeURLHeader = 6

// ParseTreeURL decodes a shared skill tree link into an Activation. s may be
// the bare payload or a full link; everything up to the last '/' and any
// query or fragment is ignored. Padding is optional.
//
// Layout: big-endian uint32 version, class byte, ascendancy byte, then
// big-endian uint16 node ids. Version 4 has a fullscreen flag byte and the
// ids fill the rest of the payload; versions 5 and 6 have a count byte
// instead.
func ParseTreeURL(s string) (Activation, error) {
	payload := s
	if i := strings.IndexAny(payload, "?#"); i >= 0 {
		payload = payload[:i]
	}
	if i := strings.LastIndexByte(payload, '/'); i >= 0 {
		payload = payload[i+1:]
	}
	payload = strings.TrimRight(strings.TrimSpace(payload), "=")

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Activation{}, fmt.Errorf("%w: %v", ErrTreeURLDecode, err)
	}
	if len(data) < treeURLHeader {
		return Activation{}, fmt.Errorf("%w: %d byte header", ErrTreeURLEOF, len(data))
	}

	version := binary.BigEndian.Uint32(data)
	a := Activation{ClassID: int(data[4]), VariantID: int(data[5])}

	if version < 4 || version > 6 {
		return Activation{}, fmt.Errorf("%w: %d", ErrTreeURLVersion, version)
	}
	if len(data) < treeURLHeader+1 {
		return Activation{}, fmt.Errorf("%w: missing byte after header", ErrTreeURLEOF)
	}
	ids := data[treeURLHeader+1:]
	count := int(data[treeURLHeader])
	if version == 4 {
		count = len(ids) / 2
	}

	if len(ids) < count*2 {
		return Activation{}, fmt.Errorf("%w: want %d node ids, have %d bytes", ErrTreeURLEOF, count, len(ids))
	}
	a.Nodes = make([]int, count)
	for i := range a.Nodes {
		a.Nodes[i] = int(binary.BigEndian.Uint16(ids[i*2:]))
	}
	return a, nil
}
