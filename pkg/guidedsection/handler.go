package guidedsection

import "context"

// SectionInfo reports the buffer requirements and attributes of a section
// before it is decoded.
type SectionInfo struct {
	// OutputSize is the size in bytes of the buffer the decoded payload needs.
	OutputSize uint32
	// ScratchSize is the size in bytes of temporary workspace the decode
	// needs, zero if none.
	ScratchSize uint32
	// Attributes are the section's attribute bits.
	Attributes SectionAttributes
}

// GetInfoHandler reports sizing and attributes for sections of one format.
type GetInfoHandler interface {
	// GetInfo examines a GUID-defined section without decoding it.
	GetInfo(ctx context.Context, section []byte) (SectionInfo, error)
}

// DecodeHandler transforms the encoded payload of sections of one format.
//
// A handler may return a sub-slice of section directly when the encoded and
// decoded forms are identical (zero copy), or fill and return a buffer of
// its own. The scratch buffer, when non-nil, is caller-owned workspace
// sized per the format's GetInfo report. The handler is responsible for
// setting the AuthPlatformOverride bit of the returned status when it
// decoded through an unauthenticated path.
type DecodeHandler interface {
	Decode(ctx context.Context, section, scratch []byte) ([]byte, AuthStatus, error)
}

// GetInfoFunc adapts a function to the GetInfoHandler interface.
type GetInfoFunc func(ctx context.Context, section []byte) (SectionInfo, error)

// GetInfo calls f.
func (f GetInfoFunc) GetInfo(ctx context.Context, section []byte) (SectionInfo, error) {
	return f(ctx, section)
}

// DecodeFunc adapts a function to the DecodeHandler interface.
type DecodeFunc func(ctx context.Context, section, scratch []byte) ([]byte, AuthStatus, error)

// Decode calls f.
func (f DecodeFunc) Decode(ctx context.Context, section, scratch []byte) ([]byte, AuthStatus, error) {
	return f(ctx, section, scratch)
}
