package wal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/ntstm/pkg/stream"
	"github.com/marmos91/ntstm/pkg/xdr"
)

// EntryKind tells whether an entry stores or removes a key.
type EntryKind uint32

const (
	// EntryPut stores Data under Key, replacing any earlier value.
	EntryPut EntryKind = 1

	// EntryDelete removes Key. Delete entries carry no data.
	EntryDelete EntryKind = 2
)

// String returns the lower-case name of the kind.
func (k EntryKind) String() string {
	switch k {
	case EntryPut:
		return "put"
	case EntryDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

// MaxKeyLength bounds entry keys.
const MaxKeyLength = 4096

// Entry is one record of the log.
//
// Wire format (XDR):
//
//	id:         opaque[16]
//	kind:       uint32 (union discriminant)
//	key:        string<4096>
//	created_at: hyper (unix nanoseconds)
//	data:       opaque<> (put arm only)
type Entry struct {
	ID        uuid.UUID
	Kind      EntryKind
	Key       string
	Data      []byte
	CreatedAt time.Time
}

// NewPut creates a put entry with a fresh ID.
func NewPut(key string, data []byte) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Kind:      EntryPut,
		Key:       key,
		Data:      data,
		CreatedAt: time.Now(),
	}
}

// NewDelete creates a delete entry with a fresh ID.
func NewDelete(key string) *Entry {
	return &Entry{
		ID:        uuid.New(),
		Kind:      EntryDelete,
		Key:       key,
		CreatedAt: time.Now(),
	}
}

// Validate checks the entry can be encoded.
func (e *Entry) Validate() error {
	if e.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidEntry)
	}
	if len(e.Key) > MaxKeyLength {
		return fmt.Errorf("%w: key length %d exceeds %d", ErrInvalidEntry, len(e.Key), MaxKeyLength)
	}
	switch e.Kind {
	case EntryPut:
		if len(e.Data) > xdr.MaxOpaqueLength {
			return fmt.Errorf("%w: data length %d exceeds %d", ErrInvalidEntry, len(e.Data), xdr.MaxOpaqueLength)
		}
	case EntryDelete:
		if len(e.Data) != 0 {
			return fmt.Errorf("%w: delete entry carries data", ErrInvalidEntry)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidEntry, uint32(e.Kind))
	}
	return nil
}

// Deflate encodes the entry to w.
func (e *Entry) Deflate(w stream.Writer) error {
	if err := xdr.WriteFixedOpaque(w, e.ID[:]); err != nil {
		return fmt.Errorf("write id: %w", err)
	}
	if err := xdr.EncodeUnionDiscriminant(w, uint32(e.Kind)); err != nil {
		return fmt.Errorf("write kind: %w", err)
	}
	if err := xdr.WriteString(w, e.Key); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	if err := xdr.WriteInt64(w, e.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("write created_at: %w", err)
	}
	if e.Kind == EntryPut {
		if err := xdr.WriteOpaque(w, e.Data); err != nil {
			return fmt.Errorf("write data: %w", err)
		}
	}
	return nil
}

// Inflate resets the entry and decodes it from r. On failure the entry
// is left zeroed.
func (e *Entry) Inflate(r stream.Reader) error {
	*e = Entry{}

	decoded, err := decodeEntry(r)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

func decodeEntry(r stream.Reader) (Entry, error) {
	var e Entry

	id, err := xdr.DecodeFixedOpaque(r, uint32(len(e.ID)))
	if err != nil {
		return Entry{}, fmt.Errorf("read id: %w", err)
	}
	copy(e.ID[:], id)

	kind, err := xdr.DecodeUnionDiscriminantIn(r, uint32(EntryPut), uint32(EntryDelete))
	if err != nil {
		return Entry{}, fmt.Errorf("read kind: %w", err)
	}
	e.Kind = EntryKind(kind)

	if e.Key, err = xdr.DecodeString(r); err != nil {
		return Entry{}, fmt.Errorf("read key: %w", err)
	}
	if len(e.Key) > MaxKeyLength {
		return Entry{}, fmt.Errorf("key length %d exceeds %d: %w", len(e.Key), MaxKeyLength, stream.ErrMalformed)
	}

	nanos, err := xdr.DecodeInt64(r)
	if err != nil {
		return Entry{}, fmt.Errorf("read created_at: %w", err)
	}
	e.CreatedAt = time.Unix(0, nanos)

	if e.Kind == EntryPut {
		if e.Data, err = xdr.DecodeOpaque(r); err != nil {
			return Entry{}, fmt.Errorf("read data: %w", err)
		}
	}
	return e, nil
}

var _ stream.Serializable = (*Entry)(nil)

// Fold applies entries in order and returns the live ones: the latest put
// of every key that was not deleted afterwards, in the order those puts
// appear.
func Fold(entries []Entry) []Entry {
	var live liveSet
	for _, e := range entries {
		live.apply(e)
	}
	return live.entries()
}

// liveSet folds puts and deletes into the latest value per key.
type liveSet struct {
	order []*Entry
	byKey map[string]int
}

func (s *liveSet) apply(e Entry) {
	if s.byKey == nil {
		s.byKey = make(map[string]int)
	}
	if i, ok := s.byKey[e.Key]; ok {
		s.order[i] = nil
		delete(s.byKey, e.Key)
	}
	if e.Kind == EntryPut {
		s.byKey[e.Key] = len(s.order)
		s.order = append(s.order, &e)
	}
}

func (s *liveSet) entries() []Entry {
	out := make([]Entry, 0, len(s.byKey))
	for _, e := range s.order {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}
