package guidedsection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/guidedsection/pkg/guidedsection/observability"
)

// GetInfo extracts the format GUID embedded in section, looks up the
// registered get-info handler, and returns its sizing report verbatim,
// including any failure.
//
// Returns ErrOutOfResources when no backing store is usable,
// ErrInvalidParameter for a malformed section, and ErrUnsupported when no
// handler is registered for the section's GUID. section must be non-nil;
// a nil section is a programming fault and panics.
func (r *Registry) GetInfo(ctx context.Context, section []byte) (SectionInfo, error) {
	if section == nil {
		panic("guidedsection: GetInfo with nil section")
	}

	t, err := r.resolve()
	if err != nil {
		return SectionInfo{}, err
	}

	hdr, err := ParseSection(section)
	if err != nil {
		return SectionInfo{}, err
	}

	h, err := r.lookupGetInfo(ctx, t, hdr.GUID)
	if err != nil {
		return SectionInfo{}, err
	}

	ctx, span := r.spans.StartDispatchSpan(ctx, "get_info", hdr.GUID.String())
	start := time.Now()
	info, err := h.GetInfo(ctx, section)
	dur := time.Since(start)
	r.spans.EndSpanWithError(span, err)
	r.metrics.RecordDispatch(ctx, "get_info", dur, err)
	observability.LogDispatch(r.logger, "get_info", hdr.GUID.String(), float64(dur.Milliseconds()), err)
	return info, err
}

// Decode extracts the format GUID embedded in section, looks up the
// registered decode handler, and returns its output buffer and
// authentication status verbatim, including any failure. The handler may
// alias the returned buffer to section (zero copy) or fill a buffer of
// its own. scratch is optional workspace passed through to the handler;
// nil is valid for formats whose GetInfo reports no scratch requirement.
//
// Error conditions match GetInfo.
func (r *Registry) Decode(ctx context.Context, section, scratch []byte) ([]byte, AuthStatus, error) {
	if section == nil {
		panic("guidedsection: Decode with nil section")
	}

	t, err := r.resolve()
	if err != nil {
		return nil, 0, err
	}

	hdr, err := ParseSection(section)
	if err != nil {
		return nil, 0, err
	}

	h, err := r.lookupDecode(ctx, t, hdr.GUID)
	if err != nil {
		return nil, 0, err
	}

	ctx, span := r.spans.StartDispatchSpan(ctx, "decode", hdr.GUID.String())
	start := time.Now()
	out, auth, err := h.Decode(ctx, section, scratch)
	dur := time.Since(start)
	r.spans.EndSpanWithError(span, err)
	r.metrics.RecordDispatch(ctx, "decode", dur, err)
	observability.LogDispatch(r.logger, "decode", hdr.GUID.String(), float64(dur.Milliseconds()), err)
	return out, auth, err
}

// lookupGetInfo resolves the get-info handler bound to guid through the
// block's reference table.
func (r *Registry) lookupGetInfo(ctx context.Context, t *handlerTable, guid uuid.UUID) (GetInfoHandler, error) {
	slot, ok := t.find(guid)
	if !ok {
		return nil, r.miss(ctx, "get_info", guid)
	}
	ref, err := t.layout.ReadInfoRef(t.store.Region, slot)
	if err != nil {
		return nil, &StoreError{Store: t.store.Name, Op: "read", Err: err}
	}
	if int(ref) >= t.layout.Capacity() || t.getInfo[ref] == nil {
		return nil, r.miss(ctx, "get_info", guid)
	}
	return t.getInfo[ref], nil
}

// lookupDecode resolves the decode handler bound to guid through the
// block's reference table.
func (r *Registry) lookupDecode(ctx context.Context, t *handlerTable, guid uuid.UUID) (DecodeHandler, error) {
	slot, ok := t.find(guid)
	if !ok {
		return nil, r.miss(ctx, "decode", guid)
	}
	ref, err := t.layout.ReadDecodeRef(t.store.Region, slot)
	if err != nil {
		return nil, &StoreError{Store: t.store.Name, Op: "read", Err: err}
	}
	if int(ref) >= t.layout.Capacity() || t.decode[ref] == nil {
		return nil, r.miss(ctx, "decode", guid)
	}
	return t.decode[ref], nil
}

// miss records a dispatch with no bound handler and returns ErrUnsupported.
func (r *Registry) miss(ctx context.Context, op string, guid uuid.UUID) error {
	err := fmt.Errorf("%w: no handler for section type %s", ErrUnsupported, guid)
	observability.LogDispatchMiss(r.logger, op, guid.String())
	r.metrics.RecordDispatch(ctx, op, 0, err)
	return err
}
