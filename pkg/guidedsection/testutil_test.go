package guidedsection_test

import (
	"context"
	"errors"

	"github.com/randalmurphal/guidedsection/pkg/guidedsection"
)

// passthroughInfo returns a GetInfoHandler reporting fixed sizes.
func passthroughInfo(info guidedsection.SectionInfo) guidedsection.GetInfoHandler {
	return guidedsection.GetInfoFunc(func(_ context.Context, _ []byte) (guidedsection.SectionInfo, error) {
		return info, nil
	})
}

// passthroughDecode returns a DecodeHandler that hands back the encoded
// payload unchanged (zero copy) with the given authentication status.
func passthroughDecode(auth guidedsection.AuthStatus) guidedsection.DecodeHandler {
	return guidedsection.DecodeFunc(func(_ context.Context, section, _ []byte) ([]byte, guidedsection.AuthStatus, error) {
		data, err := guidedsection.SectionData(section)
		if err != nil {
			return nil, 0, err
		}
		return data, auth, nil
	})
}

// recordingHandlers tracks which handler pair dispatch invoked.
type recordingHandlers struct {
	infoCalls   int
	decodeCalls int
}

func (h *recordingHandlers) info() guidedsection.GetInfoHandler {
	return guidedsection.GetInfoFunc(func(_ context.Context, _ []byte) (guidedsection.SectionInfo, error) {
		h.infoCalls++
		return guidedsection.SectionInfo{}, nil
	})
}

func (h *recordingHandlers) decode() guidedsection.DecodeHandler {
	return guidedsection.DecodeFunc(func(_ context.Context, _, _ []byte) ([]byte, guidedsection.AuthStatus, error) {
		h.decodeCalls++
		return nil, 0, nil
	})
}

// readOnlyRegion rejects all writes, like a memory range that is not
// mapped writable yet.
type readOnlyRegion struct {
	guidedsection.Region
}

func (readOnlyRegion) WriteAt(_ []byte, _ int64) (int, error) {
	return 0, errors.New("region not writable")
}

// silentRegion claims writes succeed but never stores them, so the
// resolver's read-back check fails.
type silentRegion struct {
	guidedsection.Region
}

func (silentRegion) WriteAt(p []byte, _ int64) (int, error) {
	return len(p), nil
}

// lockableRegion can be flipped writable at runtime.
type lockableRegion struct {
	guidedsection.Region
	writable bool
}

func (r *lockableRegion) WriteAt(p []byte, off int64) (int, error) {
	if !r.writable {
		return 0, errors.New("region not writable")
	}
	return r.Region.WriteAt(p, off)
}
