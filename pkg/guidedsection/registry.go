package guidedsection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/guidedsection/pkg/guidedsection/observability"
)

// DefaultCapacity is the handler capacity used when WithCapacity is not
// given. It matches the platform default of the firmware library this
// package models.
const DefaultCapacity = 16

// Registry maps section-format GUIDs to registered handler pairs and
// dispatches GUID-defined sections to them. The table lives in a single
// fixed-capacity backing block chosen by probing an ordered list of
// candidate stores on first use.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	capacity int
	stores   []Store
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager

	layout Layout
	table  *handlerTable // memoized by resolve
}

// handlerTable is the resolved backing state: the adopted store plus the
// process-local handler bindings for each occupied slot. The block in the
// store region stays authoritative; guids mirrors its GUID array so scans
// and enumeration need no region reads.
type handlerTable struct {
	store  Store
	layout Layout
	count  int

	guids   []uuid.UUID
	getInfo []GetInfoHandler
	decode  []DecodeHandler
}

func newHandlerTable(s Store, l Layout) *handlerTable {
	return &handlerTable{
		store:   s,
		layout:  l,
		guids:   make([]uuid.UUID, 0, l.Capacity()),
		getInfo: make([]GetInfoHandler, l.Capacity()),
		decode:  make([]DecodeHandler, l.Capacity()),
	}
}

// find returns the slot holding guid among the occupied entries.
func (t *handlerTable) find(guid uuid.UUID) (int, bool) {
	for i := 0; i < t.count; i++ {
		if t.guids[i] == guid {
			return i, true
		}
	}
	return 0, false
}

// New creates a registry. Options must be applied here; once the registry
// resolves its backing store the capacity and candidate list are fixed.
func New(opts ...Option) *Registry {
	r := &Registry{
		capacity: DefaultCapacity,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.layout = NewLayout(r.capacity)
	if len(r.stores) == 0 {
		r.stores = []Store{{Name: "static", Region: NewMemRegion(r.layout.Size())}}
	}
	return r
}

// Register binds getInfo and decode to sections whose embedded format GUID
// equals guid. Re-registering a GUID replaces its bindings in place; the
// entry keeps its slot and the previous handlers are never invoked again.
// New GUIDs are appended, so enumeration preserves registration order.
//
// Returns ErrOutOfResources when no backing store is usable or the
// registry is full; a full registry is left unchanged.
//
// guid must be non-zero and both handlers non-nil; violations are
// programming faults and panic.
func (r *Registry) Register(guid uuid.UUID, getInfo GetInfoHandler, decode DecodeHandler) error {
	if guid == uuid.Nil {
		panic("guidedsection: Register with zero GUID")
	}
	if getInfo == nil {
		panic("guidedsection: Register with nil GetInfoHandler")
	}
	if decode == nil {
		panic("guidedsection: Register with nil DecodeHandler")
	}

	t, err := r.resolve()
	if err != nil {
		return err
	}

	if slot, ok := t.find(guid); ok {
		t.getInfo[slot] = getInfo
		t.decode[slot] = decode
		observability.LogRegister(r.logger, guid.String(), true, t.count)
		r.metrics.RecordRegistration(context.Background(), true)
		return nil
	}

	if t.count == t.layout.Capacity() {
		return fmt.Errorf("%w: registry full at %d handlers", ErrOutOfResources, t.count)
	}

	slot := t.count
	region := t.store.Region
	if err := t.layout.WriteGUID(region, slot, guid); err != nil {
		return &StoreError{Store: t.store.Name, Op: "write", Err: err}
	}
	if err := t.layout.WriteDecodeRef(region, slot, uint32(slot)); err != nil {
		return &StoreError{Store: t.store.Name, Op: "write", Err: err}
	}
	if err := t.layout.WriteInfoRef(region, slot, uint32(slot)); err != nil {
		return &StoreError{Store: t.store.Name, Op: "write", Err: err}
	}
	if err := t.layout.WriteCount(region, uint32(slot+1)); err != nil {
		return &StoreError{Store: t.store.Name, Op: "write", Err: err}
	}

	t.guids = append(t.guids, guid)
	t.getInfo[slot] = getInfo
	t.decode[slot] = decode
	t.count = slot + 1

	observability.LogRegister(r.logger, guid.String(), false, t.count)
	r.metrics.RecordRegistration(context.Background(), false)
	return nil
}

// GUIDs returns the GUIDs with registered handlers, in registration order.
// The slice aliases live registry state and must be treated as read-only;
// it stays valid for the life of the registry. Entries registered after
// the call are observed by querying again.
func (r *Registry) GUIDs() ([]uuid.UUID, error) {
	t, err := r.resolve()
	if err != nil {
		return nil, err
	}
	return t.guids[:t.count:t.count], nil
}

// Default is the process-wide registry, mirroring the module-global table
// of the firmware library this package models. The package-level Register,
// GUIDs, GetInfo, and Decode functions operate on it.
var Default = New()

// Register binds handlers for a format GUID in the default registry.
func Register(guid uuid.UUID, getInfo GetInfoHandler, decode DecodeHandler) error {
	return Default.Register(guid, getInfo, decode)
}

// MustRegister binds handlers in the default registry, panicking on error.
func MustRegister(guid uuid.UUID, getInfo GetInfoHandler, decode DecodeHandler) {
	if err := Default.Register(guid, getInfo, decode); err != nil {
		panic(fmt.Sprintf("guidedsection: register %s: %v", guid, err))
	}
}

// GUIDs enumerates the default registry.
func GUIDs() ([]uuid.UUID, error) {
	return Default.GUIDs()
}

// GetInfo dispatches a metadata query through the default registry.
func GetInfo(ctx context.Context, section []byte) (SectionInfo, error) {
	return Default.GetInfo(ctx, section)
}

// Decode dispatches a decode through the default registry.
func Decode(ctx context.Context, section, scratch []byte) ([]byte, AuthStatus, error) {
	return Default.Decode(ctx, section, scratch)
}
