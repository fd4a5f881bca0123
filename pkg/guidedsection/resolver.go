package guidedsection

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/guidedsection/pkg/guidedsection/observability"
)

// resolve returns the backing handler table, probing the candidate stores
// and initializing the first usable one on the first call. The chosen
// store is kept for the life of the registry: a candidate that becomes
// writable only after a later one has been adopted can never displace it.
// Resolution is retried on every call until it succeeds, since a candidate
// may become usable once platform memory comes up.
func (r *Registry) resolve() (*handlerTable, error) {
	if r.table != nil {
		return r.table, nil
	}

	for _, s := range r.stores {
		t, err := r.adopt(s)
		if err != nil {
			observability.LogProbeRejected(r.logger, s.Name, err)
			continue
		}
		r.table = t
		observability.LogResolve(r.logger, s.Name, t.count)
		r.metrics.RecordResolve(context.Background(), s.Name, t.count)
		return t, nil
	}

	observability.LogResolveFailed(r.logger, len(r.stores))
	return nil, fmt.Errorf("%w: no usable backing store among %d candidates", ErrOutOfResources, len(r.stores))
}

// adopt probes a single candidate: a block already carrying the signature
// is attached as-is, an unmarked block that observes the signature write
// is initialized empty, anything else is rejected.
func (r *Registry) adopt(s Store) (*handlerTable, error) {
	if s.Region == nil {
		return nil, &StoreError{Store: s.Name, Op: "probe", Err: errors.New("nil region")}
	}
	if s.Region.Size() < r.layout.Size() {
		return nil, &StoreError{
			Store: s.Name,
			Op:    "probe",
			Err:   fmt.Errorf("region of %d bytes below layout size %d", s.Region.Size(), r.layout.Size()),
		}
	}

	sig, err := r.layout.ReadSignature(s.Region)
	if err != nil {
		return nil, &StoreError{Store: s.Name, Op: "probe", Err: err}
	}
	if sig == Signature {
		return r.attach(s)
	}

	// Unmarked block. The signature write-then-read-back is the
	// writability probe.
	if err := r.layout.WriteSignature(s.Region, Signature); err != nil {
		return nil, &StoreError{Store: s.Name, Op: "probe", Err: fmt.Errorf("%w: %v", ErrWriteProtected, err)}
	}
	sig, err = r.layout.ReadSignature(s.Region)
	if err != nil {
		return nil, &StoreError{Store: s.Name, Op: "probe", Err: err}
	}
	if sig != Signature {
		return nil, &StoreError{Store: s.Name, Op: "probe", Err: ErrWriteProtected}
	}

	if err := r.layout.WriteCount(s.Region, 0); err != nil {
		return nil, &StoreError{Store: s.Name, Op: "init", Err: err}
	}
	return newHandlerTable(s, r.layout), nil
}

// attach adopts a block initialized earlier in the boot phase, rebuilding
// the GUID mirror from it. Handler bindings are process-local and do not
// survive in the block: slots filled by another registry instance
// enumerate normally but dispatch as unsupported until re-registered.
func (r *Registry) attach(s Store) (*handlerTable, error) {
	count, err := r.layout.ReadCount(s.Region)
	if err != nil {
		return nil, &StoreError{Store: s.Name, Op: "read", Err: err}
	}
	if int(count) > r.layout.Capacity() {
		return nil, &StoreError{
			Store: s.Name,
			Op:    "probe",
			Err:   fmt.Errorf("block holds %d entries, capacity is %d", count, r.layout.Capacity()),
		}
	}

	t := newHandlerTable(s, r.layout)
	for i := 0; i < int(count); i++ {
		g, err := r.layout.ReadGUID(s.Region, i)
		if err != nil {
			return nil, &StoreError{Store: s.Name, Op: "read", Err: err}
		}
		t.guids = append(t.guids, g)
	}
	t.count = int(count)
	return t, nil
}
